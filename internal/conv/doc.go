// Package conv provides checked integer arithmetic and conversions for
// buffer sizing.
//
// Record vectors compute byte sizes as count*recordSize and hand them to an
// allocator. A silent wrap-around there would turn a huge request into a tiny
// allocation, so every size computation goes through this package.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
