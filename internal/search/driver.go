package search

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jhg023/8n3-prime-search/internal/modular"
	"github.com/jhg023/8n3-prime-search/internal/numfmt"
	"github.com/jhg023/8n3-prime-search/internal/prime"
	"github.com/jhg023/8n3-prime-search/internal/sieve"
)

// Counterexample records one n for which no valid (a, p) pair was found.
type Counterexample struct {
	N uint64
	N8 uint64 // N = 8n+3, reported alongside n
}

// Summary is the final report of a completed (or early-terminated) run.
type Summary struct {
	Counterexamples []Counterexample
	MaxA            uint64
	MaxAN           uint64
	Totals          Totals
	Elapsed         time.Duration
	Terminated      bool
}

// Driver is the range driver: it iterates n over a configured range,
// optionally across Threads worker goroutines, consulting an optional
// shared sieve before falling through to the primality oracle.
type Driver struct {
	cfg    Config
	sv     *sieve.Wheel
	logger *zap.Logger
	out    io.Writer
}

// NewDriver builds a Driver. sv may be nil (sieve disabled). logger may be
// nil, in which case a no-op logger is used. out receives the driver's
// progress and counterexample lines (the banner and results lines are
// printed by the caller); it is typically os.Stdout.
func NewDriver(cfg Config, sv *sieve.Wheel, logger *zap.Logger, out io.Writer) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{cfg: cfg, sv: sv, logger: logger, out: out}
}

type workerResult struct {
	maxA            uint64
	maxAN           uint64
	counterexamples []Counterexample
	stats           ThreadStats
}

// Run executes the configured range, partitioning it into cfg.Threads
// contiguous chunks. It returns as soon as every worker has stopped —
// either because the range was exhausted or because a counterexample
// caused early, cooperative termination.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	startTime := time.Now()

	var terminate atomic.Bool
	var progressMu sync.Mutex
	lastProgressTime := 0.0

	total := d.cfg.Count()
	chunk := (total + uint64(d.cfg.Threads) - 1) / uint64(d.cfg.Threads)

	results := make([]workerResult, d.cfg.Threads)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < d.cfg.Threads; w++ {
		w := w
		lo := d.cfg.NStart + uint64(w)*chunk
		hi := lo + chunk
		if hi > d.cfg.NEnd {
			hi = d.cfg.NEnd
		}
		if lo >= hi {
			continue
		}

		g.Go(func() error {
			d.runWorker(ctx, lo, hi, &results[w], &terminate, &progressMu, &lastProgressTime, startTime, total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Terminated: terminate.Load()}
	workerStats := make([]ThreadStats, len(results))
	rates := make([]float64, 0, len(results))
	elapsed := time.Since(startTime)

	for i, r := range results {
		workerStats[i] = r.stats
		summary.Counterexamples = append(summary.Counterexamples, r.counterexamples...)
		if r.maxA > summary.MaxA {
			summary.MaxA = r.maxA
			summary.MaxAN = r.maxAN
		}
		if elapsed.Seconds() > 0 {
			rates = append(rates, float64(r.stats.NProcessed)/elapsed.Seconds())
		}
	}
	summary.Totals = Sum(workerStats)
	summary.Elapsed = elapsed

	if mean, err := stats.Mean(rates); err == nil && len(rates) > 1 {
		stddev, _ := stats.StandardDeviation(rates)
		d.logger.Debug("worker throughput spread",
			zap.Float64("mean_per_sec", mean),
			zap.Float64("stddev_per_sec", stddev),
			zap.Int("workers", len(rates)),
		)
	}

	return summary, nil
}

func (d *Driver) runWorker(
	ctx context.Context,
	startN, endN uint64,
	result *workerResult,
	terminate *atomic.Bool,
	progressMu *sync.Mutex,
	lastProgressTime *float64,
	startTime time.Time,
	totalRange uint64,
) {
	N := 8*startN + 3
	aMax := modular.Isqrt(N) | 1
	if aMax*aMax > N {
		aMax -= 2
	}

	for n := startN; n < endN; n++ {
		if terminate.Load() {
			return
		}

		a, p, found := solveIncremental(N, aMax, d.sv, &result.stats)
		result.stats.NProcessed++

		if found {
			if a > result.maxA {
				result.maxA = a
				result.maxAN = n
			}
		} else {
			if terminate.CompareAndSwap(false, true) {
				progressMu.Lock()
				fmt.Fprintf(d.out, "\n*** COUNTEREXAMPLE FOUND ***\nn = %s\nN = 8n + 3 = %s\n\n",
					numfmt.Comma(n), numfmt.Comma(N))
				progressMu.Unlock()
			}
			result.counterexamples = append(result.counterexamples, Counterexample{N: n, N8: N})
			return
		}

		if n&ProgressIterationMask == 0 {
			d.maybePrintProgress(n, startN, totalRange, startTime, progressMu, lastProgressTime)
		}

		_ = p
		N += 8
		if next := aMax + 2; next*next <= N {
			aMax = next
		}
	}
}

func (d *Driver) maybePrintProgress(n, rangeStart, totalRange uint64, startTime time.Time, mu *sync.Mutex, lastProgressTime *float64) {
	now := time.Since(startTime).Seconds()

	mu.Lock()
	defer mu.Unlock()
	if now-*lastProgressTime < ProgressIntervalSeconds {
		return
	}
	*lastProgressTime = now

	processed := n - rangeStart + 1
	pct := 100.0 * float64(processed) / float64(totalRange)
	rate := float64(processed) / now
	remaining := float64(totalRange) - float64(processed)
	eta := time.Duration(0)
	if rate > 0 {
		eta = time.Duration(remaining/rate) * time.Second
	}

	fmt.Fprintf(d.out, "n ~ %s (%.1f%%), rate = %s, ETA: %s\n",
		numfmt.Comma(n), pct, numfmt.Rate(rate), numfmt.Duration(eta))
}

// solveIncremental walks a downward from aMax (carried forward by the
// caller rather than recomputed via isqrt each iteration), consulting the
// optional sieve between the trial-division prefilter and the oracle.
func solveIncremental(N, aMax uint64, sv *sieve.Wheel, st *ThreadStats) (a, p uint64, found bool) {
	a = aMax
	if a&1 == 0 {
		a--
	}
	aSq := a * a
	if aSq > N {
		a -= 2
		aSq = a * a
	}

	delta := 2 * (a - 1)
	p = (N - aSq) >> 1

	for {
		if p >= 2 && isPrimeCandidate(p, sv, st) {
			return a, p, true
		}
		if a < 3 {
			break
		}
		p += delta
		delta -= 4
		a -= 2
	}
	return 0, 0, false
}

// isPrimeCandidate implements the prefilter -> sieve -> oracle cascade.
func isPrimeCandidate(candidate uint64, sv *sieve.Wheel, st *ThreadStats) bool {
	st.CandidatesTested++

	switch prime.TrialDivide(candidate) {
	case prime.TrialComposite:
		return false
	case prime.TrialIsSmallPrime:
		return true
	}

	if candidate < 131*131 {
		return true
	}

	if sv != nil && sv.InRange(candidate) {
		if sv.IsPrime(candidate) {
			st.SieveHits++
			return true
		}
		st.SieveMisses++
		return false
	}

	return prime.IsPrime(candidate)
}
