package recstream

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Partitioner maps a record key to a partition index in [0, n). Partitioners
// must be deterministic within one run; matching hash values across runs or
// implementations is explicitly not promised.
type Partitioner func(key []byte, n int) (int, error)

// DefaultPartition returns xxhash64 of the key's textual form modulo n.
func DefaultPartition(key []byte, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("recstream: partition count %d must be positive", n)
	}
	return int(xxhash.Sum64(key) % uint64(n)), nil
}

// RangePartition returns a Partitioner that buckets numeric keys in
// [min, max] into n equal-sized linear ranges. The range must be non-empty
// (min < max); keys are parsed from their textual form and a non-numeric
// key is an error.
func RangePartition(min, max float64) Partitioner {
	span := max - min
	return func(key []byte, n int) (int, error) {
		if n <= 0 {
			return 0, fmt.Errorf("recstream: partition count %d must be positive", n)
		}
		if !(span > 0) { // rejects zero, negative and NaN spans
			return 0, fmt.Errorf("recstream: range partition bounds [%v, %v] are empty", min, max)
		}
		k, err := strconv.ParseFloat(string(bytes.TrimSpace(key)), 64)
		if err != nil {
			return 0, fmt.Errorf("recstream: range partition key %q is not numeric: %w", key, err)
		}
		return int(math.Round((k - min) / span * float64(n-1))), nil
	}
}
