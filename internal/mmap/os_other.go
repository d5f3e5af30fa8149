//go:build !unix

package mmap

// Fallback for platforms without anonymous mmap support: allocate on the Go
// heap and let the GC reclaim the buffer once released.
func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), nil, nil
}
