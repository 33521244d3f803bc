package recstream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPartitionInRange(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 1000} {
		for i := 0; i < 200; i++ {
			key := []byte(fmt.Sprintf("key-%d", i))
			p, err := DefaultPartition(key, n)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, n)
		}
	}
}

func TestDefaultPartitionDeterministic(t *testing.T) {
	a, err := DefaultPartition([]byte("stable"), 16)
	require.NoError(t, err)
	b, err := DefaultPartition([]byte("stable"), 16)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDefaultPartitionRejectsBadCount(t *testing.T) {
	_, err := DefaultPartition([]byte("k"), 0)
	assert.Error(t, err)
	_, err = DefaultPartition([]byte("k"), -1)
	assert.Error(t, err)
}

func TestRangePartitionExtremes(t *testing.T) {
	rp := RangePartition(0, 100)

	lo, err := rp([]byte("0"), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, lo)

	hi, err := rp([]byte("100"), 10)
	require.NoError(t, err)
	assert.Equal(t, 9, hi)

	mid, err := rp([]byte("50"), 10)
	require.NoError(t, err)
	assert.Equal(t, 5, mid) // round(4.5) away from zero
}

func TestRangePartitionEmptyRange(t *testing.T) {
	for _, rp := range []Partitioner{
		RangePartition(5, 5),
		RangePartition(10, 0),
	} {
		_, err := rp([]byte("5"), 4)
		assert.Error(t, err)
	}
}

func TestRangePartitionNonNumericKey(t *testing.T) {
	rp := RangePartition(0, 10)
	_, err := rp([]byte("not-a-number"), 4)
	assert.Error(t, err)
}
