// Package resource implements memory governance for record allocators.
//
// A Controller enforces two budgets, both fail-fast:
//
//   - Memory: a hard cap on bytes held by allocations (weighted semaphore)
//   - Allocation rate: a token bucket on bytes requested per second
//
// Neither budget ever blocks. A request that does not fit is refused and the
// caller (usually alloc.Limited) reports an allocation failure.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if !rc.TryAcquireMemory(4096) {
//	    // over budget
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops that
// always succeed. This allows optional limiting without nil checks everywhere.
package resource
