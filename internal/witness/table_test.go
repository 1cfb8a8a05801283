package witness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashInRange(t *testing.T) {
	ns := []uint64{0, 1, 2, 3, 1000000007, 1 << 63, ^uint64(0)}
	for _, n := range ns {
		h := Hash(n)
		assert.Less(t, h, uint64(Size))
	}
}

func TestBaseIsOddPrimeFromPool(t *testing.T) {
	seen := map[uint16]bool{}
	for _, v := range pool {
		seen[v] = true
	}
	for i := 0; i < Size; i++ {
		assert.True(t, seen[Table[i]], "table[%d] = %d not in witness pool", i, Table[i])
	}
}

func TestHashDeterministic(t *testing.T) {
	for _, n := range []uint64{42, 1 << 40, 9999999999} {
		require.Equal(t, Hash(n), Hash(n))
		require.Equal(t, Base(n), Base(n))
	}
}

func TestChecksumNonZero(t *testing.T) {
	zero := [32]byte{}
	assert.NotEqual(t, zero, Checksum)
}
