package solver

import (
	"testing"

	"github.com/jhg023/8n3-prime-search/internal/modular"
	"github.com/jhg023/8n3-prime-search/internal/prime"
	"github.com/stretchr/testify/assert"
)

// knownSolutions are the four known solutions every build self-tests
// against.
var knownSolutions = []Result{
	{N: 1, A: 1, P: 5, Found: true},
	{N: 2, A: 3, P: 5, Found: true},
	{N: 3, A: 1, P: 13, Found: true},
	{N: 4, A: 5, P: 5, Found: true},
}

func TestSolveKnownCases(t *testing.T) {
	for _, want := range knownSolutions {
		got := Solve(want.N)
		assert.Equal(t, want, got, "n=%d", want.N)
	}
}

func TestSolveRecomputeKnownCases(t *testing.T) {
	for _, want := range knownSolutions {
		got := SolveRecompute(want.N)
		assert.Equal(t, want, got, "n=%d", want.N)
	}
}

func TestSolveAgreesWithRecompute(t *testing.T) {
	for n := uint64(1); n < 5000; n++ {
		a := Solve(n)
		b := SolveRecompute(n)
		assert.Equal(t, a, b, "n=%d", n)
	}
}

// TestSolveIsMaximal brute-forces every odd a above the solution Solve
// returns, up to isqrt(8n+3), and asserts none of them also admits a
// prime p — i.e. Solve's a is genuinely the largest, not merely a valid
// one.
func TestSolveIsMaximal(t *testing.T) {
	for n := uint64(1); n < 2000; n++ {
		r := Solve(n)
		if !r.Found {
			continue
		}
		N := 8*n + 3
		aMax := modular.Isqrt(N) | 1
		if aMax*aMax > N {
			aMax -= 2
		}

		for a := aMax; a > r.A; a -= 2 {
			aSq := a * a
			if aSq > N-4 {
				continue
			}
			candidate := (N - aSq) >> 1
			assert.False(t, prime.IsPrimeFull(candidate),
				"n=%d: a=%d > found a=%d also yields prime p=%d, so found a is not maximal",
				n, a, r.A, candidate)
		}
	}
}

func TestSolveWitnessIsValid(t *testing.T) {
	for n := uint64(1); n < 2000; n++ {
		r := Solve(n)
		if !r.Found {
			continue
		}
		N := 8*n + 3
		assert.Equal(t, N, r.A*r.A+2*r.P, "n=%d", n)
		assert.Equal(t, uint64(1), r.A&1, "a must be odd, n=%d", n)
		assert.True(t, r.A >= 1, "a must be positive, n=%d", n)
	}
}
