package search

// ThreadStats accumulates one worker's counters. It is padded to a full
// cache line (64 bytes on every mainstream architecture) so that adjacent
// workers' increments never bounce the same cache line between cores.
type ThreadStats struct {
	NProcessed       uint64
	CandidatesTested uint64
	SieveHits        uint64
	SieveMisses      uint64

	_ [32]byte // pad struct to 64 bytes
}

// Totals is the sum of every worker's ThreadStats, computed once at
// shutdown.
type Totals struct {
	NProcessed       uint64
	CandidatesTested uint64
	SieveHits        uint64
	SieveMisses      uint64
}

// Sum reduces a slice of per-worker stats into process-wide totals.
func Sum(stats []ThreadStats) Totals {
	var t Totals
	for _, s := range stats {
		t.NProcessed += s.NProcessed
		t.CandidatesTested += s.CandidatesTested
		t.SieveHits += s.SieveHits
		t.SieveMisses += s.SieveMisses
	}
	return t
}

// SieveHitRate returns the fraction of sieve lookups that found the
// candidate prime (SieveHits / (SieveHits + SieveMisses)), or 0 if the
// sieve saw no lookups.
func (t Totals) SieveHitRate() float64 {
	total := t.SieveHits + t.SieveMisses
	if total == 0 {
		return 0
	}
	return float64(t.SieveHits) / float64(total)
}
