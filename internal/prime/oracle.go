package prime

import (
	"github.com/jhg023/8n3-prime-search/internal/modular"
	"github.com/jhg023/8n3-prime-search/internal/witness"
)

// IsPrime decides the primality of n deterministically and exactly for
// every 64-bit n, assuming n is odd and n > 127 — callers are expected to
// have already routed n <= 127 and even n through the trial-division
// prefilter or a direct small-case check.
//
// It dispatches on magnitude: below 2^63 it builds Montgomery constants
// once and runs two Miller-Rabin rounds (witness 2, then the hashed
// witness) over Montgomery arithmetic; at or above 2^63 it runs the same
// two witnesses over the wide-mulmod fallback, since Montgomery reduction
// with r=2^64 is unsafe that close to the modulus's own width.
func IsPrime(n uint64) bool {
	if n < modular.MontgomerySafeThreshold {
		return isPrimeMontgomery(n)
	}
	return isPrimeFallback(n)
}

// isPrimeMontgomery runs the Montgomery fast path. The witness hash is
// computed only after the base-2 round passes (a deferred-hash reordering):
// this is semantics-preserving since the hash is pure and doesn't depend on
// the base-2 result; it just avoids the table lookup entirely when base 2
// alone already proves n composite.
func isPrimeMontgomery(n uint64) bool {
	ctx := modular.NewMontgomeryCtx(n)
	if !mrWitnessMontgomery(ctx, 2) {
		return false
	}
	return mrWitnessMontgomery(ctx, witness.Base(n))
}

func isPrimeFallback(n uint64) bool {
	if !mrWitnessFallback(n, 2) {
		return false
	}
	return mrWitnessFallback(n, witness.Base(n))
}

// mrWitnessMontgomery runs a single Miller-Rabin witness round over
// Montgomery arithmetic. n-1 = d * 2^s with d odd; x = a^d mod n in
// Montgomery form; pass immediately on x == 1 or x == n-1, otherwise
// square up to s-1 more times, passing on hitting n-1 and failing on
// hitting 1 or exhausting the rounds.
func mrWitnessMontgomery(ctx modular.MontgomeryCtx, a uint64) bool {
	n := ctx.N
	if a >= n {
		a %= n
	}
	if a == 0 {
		return true
	}

	d := n - 1
	s := 0
	for d&1 == 0 {
		d >>= 1
		s++
	}

	oneM := ctx.One()
	negOneM := ctx.NegOne()

	aM := ctx.ToMontgomery(a)
	xM := ctx.PowMontgomery(aM, d)

	if xM == oneM || xM == negOneM {
		return true
	}

	for i := 1; i < s; i++ {
		xM = ctx.Mul(xM, xM)
		if xM == negOneM {
			return true
		}
		if xM == oneM {
			return false
		}
	}
	return false
}

// mrWitnessFallback runs the identical single witness round using the
// wide-mulmod/powmod path, for n >= modular.MontgomerySafeThreshold.
func mrWitnessFallback(n, a uint64) bool {
	if a >= n {
		a %= n
	}
	if a == 0 {
		return true
	}

	d := n - 1
	s := 0
	for d&1 == 0 {
		d >>= 1
		s++
	}

	x := modular.PowMod(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}

	for i := 1; i < s; i++ {
		x = modular.MulMod(x, x, n)
		if x == n-1 {
			return true
		}
		if x == 1 {
			return false
		}
	}
	return false
}

// IsPrimeFull is a full primality test suitable for standalone use on any
// n, including small values and even numbers: it layers the trial-division
// prefilter and small-case handling in front of IsPrime.
func IsPrimeFull(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 || n == 3 {
		return true
	}
	if n&1 == 0 {
		return false
	}
	switch TrialDivide(n) {
	case TrialComposite:
		return false
	case TrialIsSmallPrime:
		return true
	}
	if n < 131*131 {
		// Passed trial division by every prime < 131, and is itself
		// smaller than the square of the smallest prime not in the
		// trial list, so it cannot have a nontrivial factor.
		return true
	}
	return IsPrime(n)
}
