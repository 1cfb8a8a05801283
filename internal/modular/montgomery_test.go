package modular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMontgomeryMulMatchesWideMulMod(t *testing.T) {
	moduli := []uint64{7, 97, 1000000007, (1 << 62) + 153}
	for _, n := range moduli {
		ctx := NewMontgomeryCtx(n)
		for a := uint64(1); a < 50; a++ {
			for b := uint64(1); b < 50; b++ {
				am := ctx.ToMontgomery(a % n)
				bm := ctx.ToMontgomery(b % n)
				gotM := ctx.Mul(am, bm)
				got := ctx.Reduce(0, gotM)
				want := MulMod(a, b, n)
				assert.Equal(t, want, got, "n=%d a=%d b=%d", n, a, b)
			}
		}
	}
}

func TestMontgomeryPowMatchesPowMod(t *testing.T) {
	moduli := []uint64{97, 1000000007, (1 << 62) + 153}
	for _, n := range moduli {
		ctx := NewMontgomeryCtx(n)
		for base := uint64(2); base < 12; base++ {
			for _, exp := range []uint64{0, 1, 2, 17, 1000} {
				baseM := ctx.ToMontgomery(base % n)
				gotM := ctx.PowMontgomery(baseM, exp)
				got := ctx.Reduce(0, gotM)
				want := PowMod(base, exp, n)
				assert.Equal(t, want, got, "n=%d base=%d exp=%d", n, base, exp)
			}
		}
	}
}

func TestMontgomeryOneAndNegOne(t *testing.T) {
	ctx := NewMontgomeryCtx(1000000007)
	one := ctx.Reduce(0, ctx.One())
	assert.Equal(t, uint64(1), one)
	negOne := ctx.Reduce(0, ctx.NegOne())
	assert.Equal(t, ctx.N-1, negOne)
}
