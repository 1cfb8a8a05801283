// Package batch implements the arithmetic-progression batch sieve: for a
// fixed a and a contiguous window of n values, candidate p values form
// an arithmetic progression with common difference 4, letting many
// candidates be ruled out by modular sieving against small primes instead of
// an individual Miller-Rabin test each.
package batch

import (
	"fmt"
	"strings"

	"github.com/jhg023/8n3-prime-search/internal/modular"
	"github.com/jhg023/8n3-prime-search/internal/prime"
)

// smallPrimes are the sieving primes used to cross off arithmetic-progression
// composites, up to 887 — the same fixed pool the reference batch sieve
// draws from.
var smallPrimes = [...]uint32{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311, 313, 317,
	331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503,
	509, 521, 523, 541, 547, 557, 563, 569, 571, 577, 587, 593, 599, 601, 607,
	613, 617, 619, 631, 641, 643, 647, 653, 659, 661, 673, 677, 683, 691, 701,
	709, 719, 727, 733, 739, 743, 751, 757, 761, 769, 773, 787, 797, 809, 811,
	821, 823, 827, 829, 839, 853, 857, 859, 863, 877, 881, 883, 887,
}

// Batch holds the working state for one window of n values, processed by
// iterating a from largest to smallest.
type Batch struct {
	NStart    uint64
	Size      uint64
	solved    []bool
	solutionA []uint64
	solutionP []uint64
	composite []uint64 // bitset, 64 n-slots per word

	TotalSolved  uint64
	MRTestsSaved uint64
	MRTestsDone  uint64
}

// New allocates a Batch covering n in [nStart, nStart+size).
func New(nStart, size uint64) *Batch {
	return &Batch{
		NStart:    nStart,
		Size:      size,
		solved:    make([]bool, size),
		solutionA: make([]uint64, size),
		solutionP: make([]uint64, size),
		composite: make([]uint64, (size+63)/64),
	}
}

// Reset reinitializes the batch for a new window, reusing its backing
// arrays rather than reallocating them.
func (b *Batch) Reset(nStart uint64) {
	b.NStart = nStart
	b.TotalSolved = 0
	b.MRTestsSaved = 0
	b.MRTestsDone = 0
	for i := range b.solved {
		b.solved[i] = false
		b.solutionA[i] = 0
		b.solutionP[i] = 0
	}
}

func (b *Batch) setComposite(idx uint64) {
	if idx < b.Size {
		b.composite[idx>>6] |= 1 << (idx & 63)
	}
}

func (b *Batch) isComposite(idx uint64) bool {
	if idx >= b.Size {
		return true
	}
	return b.composite[idx>>6]&(1<<(idx&63)) != 0
}

func (b *Batch) clearCompositeBitmap() {
	for i := range b.composite {
		b.composite[i] = 0
	}
}

// SieveForA sieves the arithmetic progression p(a, n_start+i) = 4i + p0,
// p0 = (8*n_start + 3 - a²)/2, crossing off every index whose candidate is
// divisible by one of the small sieving primes. Index positions already
// solved are left alone.
func (b *Batch) SieveForA(a uint64) {
	aSq := a * a
	NStart := 8*b.NStart + 3
	if aSq >= NStart {
		return
	}
	pStart := (NStart - aSq) / 2

	b.clearCompositeBitmap()

	for _, q32 := range smallPrimes {
		q := uint64(q32)
		if q == 2 {
			// p = (N - a^2)/2 is always odd: N is odd, a is odd, so
			// N - a^2 is even and the quotient retains N's parity class.
			continue
		}

		pMod := pStart % q
		inv4 := inverseOf4(q)
		firstIdx := (inv4 * ((q - pMod) % q)) % q

		for idx := firstIdx; idx < b.Size; idx += q {
			if b.solved[idx] {
				continue
			}
			pVal := pStart + 4*idx
			if pVal != q {
				b.setComposite(idx)
				b.MRTestsSaved++
			}
		}
	}
}

// inverseOf4 returns the modular inverse of 4 mod q, for odd q > 1, found
// by direct search — q is always one of the small sieving primes, so this
// is cheap and avoids pulling in the general extended-Euclid machinery for
// a single fixed operand.
func inverseOf4(q uint64) uint64 {
	for t := uint64(0); t < q; t++ {
		if (4*t)%q == 1 {
			return t
		}
	}
	return 0
}

// CheckRemaining runs the primality oracle on every index not already
// solved and not crossed off by SieveForA, recording solutions.
func (b *Batch) CheckRemaining(a uint64) {
	aSq := a * a

	for idx := uint64(0); idx < b.Size; idx++ {
		if b.solved[idx] || b.isComposite(idx) {
			continue
		}

		n := b.NStart + idx
		N := 8*n + 3
		if aSq >= N {
			continue
		}
		p := (N - aSq) / 2
		if p < 2 {
			continue
		}

		b.MRTestsDone++
		if prime.IsPrimeFull(p) {
			b.solved[idx] = true
			b.solutionA[idx] = a
			b.solutionP[idx] = p
			b.TotalSolved++
		}
	}
}

// Process iterates a from the largest candidate down to 1, sieving and
// checking at each step, matching the largest-a-first contract of the
// per-n solver. It stops early once every n in the batch is solved.
func (b *Batch) Process() {
	nMax := b.NStart + b.Size - 1
	NMax := 8*nMax + 3
	aMax := modular.Isqrt(NMax)
	if aMax&1 == 0 {
		aMax--
	}

	for a := aMax; ; a -= 2 {
		b.SieveForA(a)
		b.CheckRemaining(a)

		if b.TotalSolved >= b.Size {
			break
		}
		if a < 3 {
			break
		}
	}
}

// VerifyComplete reports whether every n in the batch was solved.
func (b *Batch) VerifyComplete() bool {
	for _, s := range b.solved {
		if !s {
			return false
		}
	}
	return true
}

// CountUnsolved returns the number of n values left unsolved — candidate
// counterexamples requiring the per-n solver's exhaustive a-sweep to
// confirm.
func (b *Batch) CountUnsolved() uint64 {
	var count uint64
	for _, s := range b.solved {
		if !s {
			count++
		}
	}
	return count
}

// UnsolvedNs returns every n in the batch left unsolved, in ascending order.
func (b *Batch) UnsolvedNs() []uint64 {
	var ns []uint64
	for idx, s := range b.solved {
		if !s {
			ns = append(ns, b.NStart+uint64(idx))
		}
	}
	return ns
}

// Solution returns the witness (a, p) found for n, if any.
func (b *Batch) Solution(n uint64) (a, p uint64, ok bool) {
	if n < b.NStart || n >= b.NStart+b.Size {
		return 0, 0, false
	}
	idx := n - b.NStart
	if !b.solved[idx] {
		return 0, 0, false
	}
	return b.solutionA[idx], b.solutionP[idx], true
}

// Summary renders a human-readable batch report as an owned string so
// callers can compose it into their own output stream.
func (b *Batch) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch Statistics:\n")
	fmt.Fprintf(&sb, "  Range: n in [%d, %d)\n", b.NStart, b.NStart+b.Size)
	fmt.Fprintf(&sb, "  Batch size: %d\n", b.Size)
	fmt.Fprintf(&sb, "  Solved: %d / %d\n", b.TotalSolved, b.Size)
	fmt.Fprintf(&sb, "  MR tests saved by sieving: %d\n", b.MRTestsSaved)
	fmt.Fprintf(&sb, "  MR tests performed: %d\n", b.MRTestsDone)

	if total := b.MRTestsSaved + b.MRTestsDone; total > 0 {
		rate := 100.0 * float64(b.MRTestsSaved) / float64(total)
		fmt.Fprintf(&sb, "  MR test savings: %.1f%%\n", rate)
	}

	unsolved := b.UnsolvedNs()
	if len(unsolved) > 0 {
		fmt.Fprintf(&sb, "  UNSOLVED (potential counterexamples): %d\n", len(unsolved))
		fmt.Fprintf(&sb, "  First few unsolved n values:\n")
		shown := unsolved
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, n := range shown {
			fmt.Fprintf(&sb, "    n = %d\n", n)
		}
	}

	return sb.String()
}
