// Package mem provides aligned heap buffers.
//
// # Aligned Allocation
//
// Record storage aligned to a cache line (64 bytes) keeps fixed-size records
// from straddling lines when the record size divides the alignment, and is
// AVX-512 friendly for callers that run SIMD kernels over the raw bytes.
package mem
