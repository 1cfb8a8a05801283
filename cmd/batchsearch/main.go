// Command batchsearch is the batched verifier: it exhaustively checks a
// range of n using the arithmetic-progression "a-major sieve", re-verifying
// every unsolved index with the per-n solver before reporting
// a counterexample.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jhg023/8n3-prime-search/internal/batch"
	"github.com/jhg023/8n3-prime-search/internal/logging"
	"github.com/jhg023/8n3-prime-search/internal/numfmt"
	"github.com/jhg023/8n3-prime-search/internal/search"
	"github.com/jhg023/8n3-prime-search/internal/solver"
)

var (
	batchSize uint64
	logLevel  string
	help      bool
)

func init() {
	flag.Uint64Var(&batchSize, "batch-size", search.DefaultBatchSize, "Number of n values per batch")
	flag.StringVar(&logLevel, "log-level", "info", "Diagnostic log verbosity (debug, info, warn, error)")
	flag.BoolVar(&help, "h", false, "Show usage")
	flag.BoolVar(&help, "help", false, "Show usage")
}

func main() {
	flag.Parse()
	if help {
		flag.Usage()
		os.Exit(0)
	}

	nStart := uint64(search.DefaultNStart)
	nEnd := uint64(search.DefaultNEnd)

	args := flag.Args()
	if len(args) >= 1 {
		v, err := numfmt.ParseNumber(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid n_start %q: %v\n", args[0], err)
			os.Exit(1)
		}
		nStart = v
		nEnd = nStart + 1_000_000
	}
	if len(args) >= 2 {
		v, err := numfmt.ParseNumber(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid n_end %q: %v\n", args[1], err)
			os.Exit(1)
		}
		nEnd = v
	}

	if batchSize < search.MinBatchSize {
		fmt.Fprintf(os.Stderr, "Error: --batch-size must be >= %d, got %d\n", search.MinBatchSize, batchSize)
		os.Exit(1)
	}
	if nStart >= nEnd {
		fmt.Fprintln(os.Stderr, "Error: n_start must be less than n_end")
		os.Exit(1)
	}

	fmt.Println("==================================================================")
	fmt.Println("     Batched Counterexample Verifier: 8n + 3 = a^2 + 2p            ")
	fmt.Println("==================================================================")
	fmt.Println()
	fmt.Printf("Range: n in [%s, %s)\n", numfmt.Comma(nStart), numfmt.Comma(nEnd))
	fmt.Printf("Batch size: %s\n\n", numfmt.Comma(batchSize))

	if !search.RunSelfTest(os.Stdout) {
		fmt.Fprintln(os.Stderr, "\nERROR: Verification failed!")
		os.Exit(1)
	}
	fmt.Println()

	logger, err := logging.New(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	start := time.Now()
	b := batch.New(nStart, batchSize)

	var counterexamples []uint64
	var totalSolved uint64

	for lo := nStart; lo < nEnd; lo += batchSize {
		size := batchSize
		if lo+size > nEnd {
			size = nEnd - lo
		}
		if size != b.Size {
			b = batch.New(lo, size)
		} else {
			b.Reset(lo)
		}

		b.Process()
		totalSolved += b.TotalSolved

		for _, n := range b.UnsolvedNs() {
			r := solver.Solve(n)
			if !r.Found {
				counterexamples = append(counterexamples, n)
				fmt.Printf("\n*** COUNTEREXAMPLE FOUND ***\nn = %s\nN = 8n + 3 = %s\n\n",
					numfmt.Comma(n), numfmt.Comma(8*n+3))
				continue
			}

			// The batch sieve left n unsolved but the per-n solver found a
			// witness on re-verification: count it so totalSolved isn't
			// silently undercounted.
			totalSolved++
			logger.Warn("batch sieve left a solvable n unsolved; corrected by re-verification",
				zap.Uint64("n", n), zap.Uint64("a", r.A), zap.Uint64("p", r.P))
		}
	}

	elapsed := time.Since(start)
	total := nEnd - nStart

	fmt.Println()
	fmt.Println("==================================================================")
	fmt.Println("RESULTS")
	fmt.Println("==================================================================")
	fmt.Println()
	fmt.Printf("Total time:           %s\n", numfmt.Duration(elapsed))
	fmt.Printf("Total throughput:     %s n/sec\n", numfmt.Rate(float64(total)/elapsed.Seconds()))
	fmt.Printf("Solved:               %s / %s\n", numfmt.Comma(totalSolved), numfmt.Comma(total))
	fmt.Printf("Counterexamples:      %d\n", len(counterexamples))

	if len(counterexamples) > 0 {
		os.Exit(2)
	}
	os.Exit(0)
}
