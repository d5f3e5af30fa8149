// Package resource enforces execution-time resource limits shared by all
// concurrent queries: a byte budget for in-flight columnar data and a cap on
// the number of driver goroutines.
//
// The memory budget is the only state shared across driver threads, so
// Reserve and Release are safe for concurrent use. Reserve never blocks; a
// request that would exceed the limit fails immediately with a LimitError,
// which the caller must treat as fatal to the current operator invocation.
package resource
