package prime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var smallPrimes = []uint64{
	131, 137, 139, 149, 151, 157, 163, 167, 173, 179,
	2003, 7919, 104729, 1299709,
}

var smallComposites = []uint64{
	131 * 131, 137 * 139, 999999999989 - 2, 104729 * 104729, 9 * 9 * 9 * 9,
}

func TestIsPrimeFullSmallPrimes(t *testing.T) {
	for _, p := range smallPrimes {
		assert.True(t, IsPrimeFull(p), "expected %d prime", p)
	}
}

func TestIsPrimeFullSmallComposites(t *testing.T) {
	for _, c := range smallComposites {
		assert.False(t, IsPrimeFull(c), "expected %d composite", c)
	}
}

func TestIsPrimeFullTinyCases(t *testing.T) {
	assert.False(t, IsPrimeFull(0))
	assert.False(t, IsPrimeFull(1))
	assert.True(t, IsPrimeFull(2))
	assert.True(t, IsPrimeFull(3))
	assert.False(t, IsPrimeFull(4))
	assert.False(t, IsPrimeFull(9))
}

// known 64-bit primes and composites straddling the Montgomery-safe
// threshold (2^63), exercising both dispatch paths of IsPrime.
func TestIsPrimeAcrossThreshold(t *testing.T) {
	cases := []struct {
		n     uint64
		prime bool
	}{
		{(1 << 62) + 123, false},
		{999999999999999989, true},
		{(1 << 63) - 25, true},
		{(1 << 63) + 133, false},
		{18446744073709551557, true}, // largest prime < 2^64
		{18446744073709551556, false},
	}
	for _, c := range cases {
		got := IsPrimeFull(c.n)
		assert.Equal(t, c.prime, got, "n=%d", c.n)
	}
}

func TestTrialDivideAgreesWithUnrolled(t *testing.T) {
	for n := uint64(2); n < 5000; n++ {
		assert.Equal(t, TrialDivide(n), TrialDivideUnrolled(n), "n=%d", n)
	}
}

// isPrimeTrivial is a deliberately naive O(sqrt(n)) trial-division
// primality test, independent of TrialDivide/IsPrime, used only as a
// ground truth for the oracle-agreement sweep below.
func isPrimeTrivial(n uint64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := uint64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// TestOracleAgreesWithTrialDivisionUpTo1e7 exhaustively checks that
// IsPrimeFull agrees with a trivial trial-division primality test for
// every n up to 10^7. It is skipped under `go test -short` since the
// full sweep is several orders of magnitude slower than the rest of the
// package's tests.
func TestOracleAgreesWithTrialDivisionUpTo1e7(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping exhaustive oracle-agreement sweep in -short mode")
	}
	const limit = 10_000_000
	for n := uint64(2); n < limit; n++ {
		want := isPrimeTrivial(n)
		got := IsPrimeFull(n)
		if want != got {
			t.Fatalf("oracle disagreement at n=%d: trial-division=%v oracle=%v", n, want, got)
		}
	}
}
