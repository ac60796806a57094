package sharded

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hasher produces a 64-bit hash of a key for shard assignment. The hash
// need not be cryptographic, only fast and well-distributed.
type Hasher[K any] func(key K) uint64

// shardIndex maps a key's hash into [0, shards).
func (fn Hasher[K]) shardIndex(key K, shards uint64) uint64 {
	return fn(key) % shards
}

// DefaultHasher dispatches on the concrete type of K and hashes it with
// xxhash, the fastest well-distributed hash available in this module's
// dependency set. Unsupported key types fall back to hashing fmt.Sprint(k),
// which works but is slower; supply a custom Hasher for hot paths over
// such keys.
func DefaultHasher[K any]() Hasher[K] {
	return func(k K) uint64 {
		switch v := any(k).(type) {
		case string:
			return xxhash.Sum64String(v)
		case []byte:
			return xxhash.Sum64(v)
		case int:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case int8:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case int16:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case int32:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case int64:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case uint:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case uint8:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case uint16:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case uint32:
			return xxhash.Sum64(uint64Bytes(uint64(v)))
		case uint64:
			return xxhash.Sum64(uint64Bytes(v))
		case fmt.Stringer:
			return xxhash.Sum64String(v.String())
		default:
			return xxhash.Sum64String(fmt.Sprint(k))
		}
	}
}

// uint64Bytes renders u as 8 little-endian bytes for feeding to xxhash.
func uint64Bytes(u uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(u)
		u >>= 8
	}
	return b
}
