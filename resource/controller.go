package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation would push usage
// past the configured memory limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for reserved working-set memory.
	// If 0, no limit is enforced and usage is only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentJobs is the maximum number of compression or
	// decompression calls running at once. If 0, defaults to 1.
	MaxConcurrentJobs int64

	// IOLimitBytesPerSec is the maximum archive write throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages the process-wide budgets. A nil Controller is valid
// and enforces nothing.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	jobSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a controller with the given limits.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	c := &Controller{
		cfg:    cfg,
		jobSem: semaphore.NewWeighted(cfg.MaxConcurrentJobs),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireMemory reserves working-set memory, blocking until the reservation
// fits under the limit or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves working-set memory without blocking. It returns
// ErrMemoryLimitExceeded when the reservation does not fit.
func (c *Controller) TryAcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns a reservation made by AcquireMemory or
// TryAcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireJob reserves a job slot, blocking while all slots are busy.
func (c *Controller) AcquireJob(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.jobSem.Acquire(ctx, 1)
}

// TryAcquireJob reserves a job slot without blocking.
func (c *Controller) TryAcquireJob() bool {
	if c == nil {
		return true
	}
	return c.jobSem.TryAcquire(1)
}

// ReleaseJob returns a job slot.
func (c *Controller) ReleaseJob() {
	if c == nil {
		return
	}
	c.jobSem.Release(1)
}

// AcquireIO waits until the IO limit allows the given number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// TryAcquireIO reports whether the IO limit allows the given number of
// bytes right now, consuming them if so.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
