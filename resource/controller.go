package resource

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of estimator workers running at once
	// across every estimate that shares this controller.
	// If 0, defaults to runtime.GOMAXPROCS(0).
	MaxWorkers int64
}

// Controller hands out worker slots to concurrent estimates.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted
	active  atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}

	return &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}
}

// AcquireWorkers reserves up to n worker slots and returns how many were
// granted. Requests above MaxWorkers are clamped so they can always be served.
// Blocks until the slots are free or ctx is done.
func (c *Controller) AcquireWorkers(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	if c == nil {
		return n, nil
	}
	if n > c.cfg.MaxWorkers {
		n = c.cfg.MaxWorkers
	}
	if err := c.workers.Acquire(ctx, n); err != nil {
		return 0, err
	}
	c.active.Add(n)
	return n, nil
}

// TryAcquireWorkers is the non-blocking form of AcquireWorkers. It returns 0
// when the clamped request cannot be served immediately.
func (c *Controller) TryAcquireWorkers(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if c == nil {
		return n
	}
	if n > c.cfg.MaxWorkers {
		n = c.cfg.MaxWorkers
	}
	if !c.workers.TryAcquire(n) {
		return 0
	}
	c.active.Add(n)
	return n
}

// ReleaseWorkers returns n previously granted slots.
func (c *Controller) ReleaseWorkers(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.workers.Release(n)
	c.active.Add(-n)
}

// ActiveWorkers returns the number of slots currently held.
func (c *Controller) ActiveWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.active.Load()
}

// MaxWorkers returns the configured slot limit.
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxWorkers
}
