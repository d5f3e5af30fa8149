package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is the sentinel wrapped by every LimitError.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// LimitError reports a denied memory reservation. The budget is left exactly
// unchanged when this error is returned.
type LimitError struct {
	Requested int64
	Used      int64
	Limit     int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("resource: cannot reserve %d bytes: %d of %d in use", e.Requested, e.Used, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrMemoryLimitExceeded }

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for in-flight columnar data.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxDrivers is the maximum number of concurrently running drivers.
	// If 0, defaults to 1.
	MaxDrivers int64
}

// Controller manages the resources shared across concurrent query
// executions: the memory budget and the driver slots.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Drivers
	driverSem *semaphore.Weighted
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxDrivers <= 0 {
		cfg.MaxDrivers = 1
	}

	c := &Controller{
		cfg:       cfg,
		driverSem: semaphore.NewWeighted(cfg.MaxDrivers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

// Reserve reserves bytes against the budget without blocking.
// It returns a LimitError if the reservation would exceed the limit.
func (c *Controller) Reserve(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return &LimitError{
			Requested: bytes,
			Used:      c.memUsed.Load(),
			Limit:     c.cfg.MemoryLimitBytes,
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// Release returns previously reserved bytes to the budget.
func (c *Controller) Release(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	return c.memUsed.Load()
}

// MemoryLimit returns the configured hard limit, or 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	return c.cfg.MemoryLimitBytes
}

// AcquireDriver reserves a driver slot, blocking until one is available or
// ctx is canceled.
func (c *Controller) AcquireDriver(ctx context.Context) error {
	return c.driverSem.Acquire(ctx, 1)
}

// TryAcquireDriver reserves a driver slot without blocking.
func (c *Controller) TryAcquireDriver() bool {
	return c.driverSem.TryAcquire(1)
}

// ReleaseDriver releases a driver slot.
func (c *Controller) ReleaseDriver() {
	c.driverSem.Release(1)
}
