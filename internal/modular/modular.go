// Package modular implements the fixed-width modular arithmetic that the
// rest of the search engine is built on: integer square root, a 128-bit-wide
// mulmod/powmod fallback for moduli at or above 2^63, and (in montgomery.go)
// the Montgomery reduction fast path used below that threshold.
package modular

import (
	"math"
	"math/bits"
)

// MontgomerySafeThreshold is the largest modulus for which Montgomery
// reduction with r = 2^64 cannot overflow. Moduli at or above this value
// fall back to the wide-multiply path in this file.
const MontgomerySafeThreshold = uint64(1) << 63

// Isqrt returns floor(sqrt(n)) for any n representable in a uint64,
// including values near 2^64-1. It seeds the search from a floating-point
// approximation and then corrects with integer comparisons so the result
// is exact regardless of the float64 rounding error.
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := uint64(math.Sqrt(float64(n)))
	if x == 0 {
		x = 1
	}
	// x*x <= n  <=>  x <= n/x (integer division), which avoids overflow
	// for x near sqrt(2^64-1).
	for x > 0 && x > n/x {
		x--
	}
	for (x+1) <= n/(x+1) {
		x++
	}
	return x
}

// MulMod returns (a*b) mod m using a 128-bit-wide intermediate product.
// This is the fallback path used for moduli at or above
// MontgomerySafeThreshold where Montgomery reduction would overflow.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

// PowMod returns base^exp mod m via binary exponentiation over MulMod.
// It is used only by the wide-multiply fallback primality path.
func PowMod(base, exp, mod uint64) uint64 {
	result := uint64(1)
	base %= mod
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, mod)
		}
		exp >>= 1
		base = MulMod(base, base, mod)
	}
	return result
}
