package resource

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded is returned when the memory limit would be exceeded.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	// ErrAllocRateExceeded is returned when the allocation rate budget is exhausted.
	ErrAllocRateExceeded = errors.New("allocation rate exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocBytesPerSec is the sustained number of bytes that may be requested
	// from the allocator per second. If 0, unlimited.
	AllocBytesPerSec int64

	// AllocBurstBytes is the largest single burst of allocation.
	// If 0, defaults to AllocBytesPerSec.
	AllocBurstBytes int64
}

// Controller manages the memory budget of allocators.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Allocation rate
	allocMu      sync.Mutex
	allocLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg: cfg,
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.AllocBytesPerSec > 0 {
		burst := cfg.AllocBurstBytes
		if burst <= 0 {
			burst = cfg.AllocBytesPerSec
		}
		c.allocLimiter = rate.NewLimiter(rate.Limit(cfg.AllocBytesPerSec), int(burst))
	}

	return c
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
// Releasing more than was acquired panics, as with any semaphore.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AllocReservation is a charge against the allocation rate budget that can
// be handed back with Cancel. A nil reservation is valid and cancels nothing.
type AllocReservation struct {
	r  *rate.Reservation
	at time.Time
}

// Cancel returns the reserved bytes to the rate budget. It is idempotent.
func (a *AllocReservation) Cancel() {
	if a == nil || a.r == nil {
		return
	}
	// Immediate reservations are only restorable at their own instant.
	a.r.CancelAt(a.at)
	a.r = nil
}

// ReserveAlloc consumes bytes from the allocation rate budget without blocking.
// It reports false, consuming nothing, if the budget cannot cover the request
// now. A request larger than the burst size never succeeds.
func (c *Controller) ReserveAlloc(bytes int) (*AllocReservation, bool) {
	if c == nil || c.allocLimiter == nil || bytes <= 0 {
		return nil, true
	}

	c.allocMu.Lock()
	defer c.allocMu.Unlock()

	// Only immediate reservations are taken, so Cancel can always refund them.
	now := time.Now()
	if c.allocLimiter.TokensAt(now) < float64(bytes) {
		return nil, false
	}
	r := c.allocLimiter.ReserveN(now, bytes)
	if !r.OK() {
		return nil, false
	}
	return &AllocReservation{r: r, at: now}, true
}
