// Package testutil provides testing utilities for bytevec.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	recs := rng.Records(100, 16) // 100 random 16-byte records
//
// # Fixed-Layout Encoders
//
//	rec := testutil.Int32(10)        // 4-byte little-endian record
//	v := testutil.DecodeInt32(rec)   // 10
package testutil
