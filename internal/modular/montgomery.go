package modular

import "math/bits"

// MontgomeryCtx holds the per-modulus constants needed for Montgomery
// reduction: the modulus itself, -n^-1 mod 2^64, and r^2 mod n where
// r = 2^64. It is transient — built once for a candidate and discarded
// after the primality test completes.
type MontgomeryCtx struct {
	N    uint64
	NInv uint64 // -n^-1 mod 2^64
	RSq  uint64 // r^2 mod n
}

// NewMontgomeryCtx builds the Montgomery constants for odd modulus n.
// n must be odd and less than MontgomerySafeThreshold; callers are
// responsible for routing n >= MontgomerySafeThreshold to the wide-mulmod
// fallback path instead.
func NewMontgomeryCtx(n uint64) MontgomeryCtx {
	return MontgomeryCtx{
		N:    n,
		NInv: montgomeryInverse(n),
		RSq:  rSquared(n),
	}
}

// montgomeryInverse computes -n^-1 mod 2^64 for odd n via five rounds of
// Newton's doubling of the modular inverse mod 2^64. The seed x = n is
// already correct to 3 bits, since n*n = 1 mod 8 for every odd n.
func montgomeryInverse(n uint64) uint64 {
	x := n
	x *= 2 - n*x // 6 bits
	x *= 2 - n*x // 12 bits
	x *= 2 - n*x // 24 bits
	x *= 2 - n*x // 48 bits
	x *= 2 - n*x // 64 bits
	return -x
}

// rSquared computes r^2 mod n = 2^128 mod n via one 128-bit modulo
// followed by one more mulmod.
func rSquared(n uint64) uint64 {
	_, r := bits.Div64(1, 0, n) // (1<<64) mod n
	hi, lo := bits.Mul64(r, r)
	_, rsq := bits.Div64(hi%n, lo, n)
	return rsq
}

// Reduce computes t * r^-1 mod n given a 128-bit intermediate product
// expressed as (hi, lo) = t. Precondition: n is odd and n < 2^63.
func (c MontgomeryCtx) Reduce(hi, lo uint64) uint64 {
	m := lo * c.NInv
	mhi, mlo := bits.Mul64(m, c.N)
	sumLo, carry := bits.Add64(lo, mlo, 0)
	_ = sumLo
	u, _ := bits.Add64(hi, mhi, carry)
	if u >= c.N {
		u -= c.N
	}
	return u
}

// Mul computes a * b * r^-1 mod n, i.e. Montgomery multiplication of two
// values already in Montgomery form.
func (c MontgomeryCtx) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return c.Reduce(hi, lo)
}

// ToMontgomery converts a (in [0, n)) into Montgomery form a*r mod n.
func (c MontgomeryCtx) ToMontgomery(a uint64) uint64 {
	return c.Mul(a, c.RSq)
}

// One returns the Montgomery form of 1, i.e. r mod n.
func (c MontgomeryCtx) One() uint64 {
	// Reduce(0, RSq) computes (r^2 mod n) * r^-1 = r mod n.
	return c.Reduce(0, c.RSq)
}

// NegOne returns the Montgomery form of n-1.
func (c MontgomeryCtx) NegOne() uint64 {
	return c.N - c.One()
}

// PowMontgomery computes base_m^exp mod n, where base_m is already in
// Montgomery form and the result is returned in Montgomery form too.
//
// The exponentiation loop is deliberately branchless on the exponent bit:
// every iteration computes the conditional multiply unconditionally and
// selects the result, instead of branching on whether the bit is set. This
// avoids data-dependent branch mispredictions when the exponent's bits are
// unpredictable, at the cost of doing the multiply whether or not the bit
// is set.
func (c MontgomeryCtx) PowMontgomery(baseM, exp uint64) uint64 {
	x := c.One()
	base := baseM
	for exp > 0 {
		tmp := c.Mul(x, base)
		// Branchless select: mask is all-ones when bit 0 of exp is set,
		// all-zeros otherwise. Avoids a data-dependent branch on an
		// unpredictable exponent bit.
		mask := -(exp & 1)
		x = (tmp & mask) | (x &^ mask)
		base = c.Mul(base, base)
		exp >>= 1
	}
	return x
}
