// Package mmap provides anonymous off-heap memory mappings.
//
// Large value buffers are allocated outside the Go heap so the garbage
// collector never scans them. A mapping is unmapped exactly once when the
// owning container is released; slices derived from a mapping are invalid
// after Close.
package mmap
