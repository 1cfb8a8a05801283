// Package prime implements the deterministic 64-bit primality oracle: a
// trial-division prefilter followed by a two-round hashed-witness
// Miller-Rabin test over Montgomery modular arithmetic.
package prime

// trialPrimes is the fixed list of small odd primes the prefilter divides
// by before ever invoking the oracle. 30 primes (3..127) is the set size
// this implementation settles on — the count is a tuning knob, not a
// correctness parameter, and benchmarking across scales from 10^9 through
// 10^18 found 30 near-optimal; see DESIGN.md for the rationale.
var trialPrimes = [...]uint32{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31,
	37, 41, 43, 47, 53, 59, 61, 67, 71, 73,
	79, 83, 89, 97, 101, 103, 107, 109, 113, 127,
}

// TrialResult is the outcome of the trial-division prefilter.
type TrialResult int

const (
	// TrialComposite means n is divisible by one of trialPrimes and is
	// not itself that prime.
	TrialComposite TrialResult = iota
	// TrialIsSmallPrime means n equals one of trialPrimes exactly.
	TrialIsSmallPrime
	// TrialUndecided means n passed the prefilter; the oracle must run.
	TrialUndecided
)

// TrialDivide runs the trial-division prefilter against the fixed small
// prime list, returning one of {composite, equal-to-a-small-prime,
// undecided}. It is a straight loop; see TrialDivideUnrolled for the
// equivalent variant with the first eight primes inlined — both satisfy the
// identical contract.
func TrialDivide(n uint64) TrialResult {
	for _, p := range trialPrimes {
		if n%uint64(p) == 0 {
			if n == uint64(p) {
				return TrialIsSmallPrime
			}
			return TrialComposite
		}
	}
	return TrialUndecided
}

// TrialDivideUnrolled is a variant of TrialDivide that tests the first
// eight primes (the most frequently hit divisors) with straight-line inlined
// checks, then falls back to a plain, not unrolled, loop for the remainder.
// It implements the identical contract as
// TrialDivide and exists to match the reference project's own pairing of a
// straight-loop and an unrolled implementation.
func TrialDivideUnrolled(n uint64) TrialResult {
	if n%3 == 0 {
		return small(n, 3)
	}
	if n%5 == 0 {
		return small(n, 5)
	}
	if n%7 == 0 {
		return small(n, 7)
	}
	if n%11 == 0 {
		return small(n, 11)
	}
	if n%13 == 0 {
		return small(n, 13)
	}
	if n%17 == 0 {
		return small(n, 17)
	}
	if n%19 == 0 {
		return small(n, 19)
	}
	if n%23 == 0 {
		return small(n, 23)
	}
	for i := 8; i < len(trialPrimes); i++ {
		p := uint64(trialPrimes[i])
		if n%p == 0 {
			return small(n, p)
		}
	}
	return TrialUndecided
}

func small(n, p uint64) TrialResult {
	if n == p {
		return TrialIsSmallPrime
	}
	return TrialComposite
}
