package testutil

import (
	"encoding/binary"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Record returns one random record of size bytes.
func (r *RNG) Record(size int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordLocked(size)
}

func (r *RNG) recordLocked(size int) []byte {
	rec := make([]byte, size)
	_, _ = r.rand.Read(rec)
	return rec
}

// Records returns num random records of size bytes each.
// Locks only once per call (preferred over calling Record in a loop).
func (r *RNG) Records(num, size int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make([][]byte, num)
	for i := range recs {
		recs[i] = r.recordLocked(size)
	}
	return recs
}

// Int32 encodes v as a 4-byte little-endian record.
func Int32(v int32) []byte {
	rec := make([]byte, 4)
	binary.LittleEndian.PutUint32(rec, uint32(v))
	return rec
}

// DecodeInt32 decodes a 4-byte little-endian record.
// It returns 0 for nil, so out-of-range lookups read as zero.
func DecodeInt32(rec []byte) int32 {
	if len(rec) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(rec))
}

// Int32s decodes consecutive 4-byte little-endian records.
func Int32s(buf []byte) []int32 {
	out := make([]int32, 0, len(buf)/4)
	for i := 0; i+4 <= len(buf); i += 4 {
		out = append(out, DecodeInt32(buf[i:i+4]))
	}
	return out
}
