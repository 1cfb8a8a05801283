// Package search implements the range driver: it iterates n over a
// contiguous range, maintaining N and a_max incrementally across
// iterations, optionally partitioning the range across worker goroutines,
// and aggregating per-worker statistics into a final report.
package search

import "fmt"

// DefaultNStart and DefaultNEnd are the default demonstration range:
// 10^12 through 10^12 + 10^6.
const (
	DefaultNStart = 1_000_000_000_000
	DefaultNEnd   = 1_000_001_000_000
)

// DefaultBatchSize is the batched verifier's default window, also used as
// the GPU driver's default dispatch size.
const DefaultBatchSize = 65536

// MinBatchSize is the floor the batched driver enforces on --batch-size;
// the GPU driver does not check it.
const MinBatchSize = 1024

// ProgressIterationMask: a worker checks the wall clock every 2^18
// iterations rather than every iteration, keeping the clock read off the
// hot path.
const ProgressIterationMask = 1<<18 - 1

// ProgressIntervalSeconds is the minimum wall-clock spacing between
// progress lines; the last-print time is shared by all workers.
const ProgressIntervalSeconds = 5.0

// Config holds the immutable parameters of a range-driver run.
type Config struct {
	NStart         uint64
	NEnd           uint64
	Threads        int
	SieveThreshold uint64
	BatchSize      uint64
}

// Validate checks the usage-error contract: n_start < n_end, range within
// the 64-bit-safe domain, at least one thread, and the configured range
// staying inside n < 2^61 so that N = 8n+3 never overflows 64 bits.
func (c Config) Validate() error {
	if c.NStart >= c.NEnd {
		return fmt.Errorf("search: n_start (%d) must be less than n_end (%d)", c.NStart, c.NEnd)
	}
	if c.NEnd >= 1<<61 {
		return fmt.Errorf("search: n_end (%d) exceeds the 2^61 safe domain", c.NEnd)
	}
	if c.Threads < 1 {
		return fmt.Errorf("search: thread_count must be >= 1, got %d", c.Threads)
	}
	if c.BatchSize != 0 && c.BatchSize < MinBatchSize {
		return fmt.Errorf("search: batch_size must be >= %d, got %d", MinBatchSize, c.BatchSize)
	}
	return nil
}

// Count returns the number of n values in the configured range.
func (c Config) Count() uint64 {
	return c.NEnd - c.NStart
}
