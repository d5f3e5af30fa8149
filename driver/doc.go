// Package driver runs query pipelines over pages of blocks.
//
// A driver is one worker goroutine executing a chain of operators: it pulls
// pages from a source, pushes them through transforms and hands them to a
// sink. Pages are owned by exactly one driver at a time. The only legal way
// to move a page to another driver is an Exchange, which calls
// AllowPassingToDifferentDriver before publishing it; the channel send then
// provides the happens-before edge for the new owner.
//
// Drivers do no I/O and never suspend mid-page. Cancellation is observed
// between pages; a canceled driver releases every page it still holds, so
// an aborted query always drains its memory budget back to zero.
package driver
