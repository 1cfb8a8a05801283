// Command search is the CPU range driver: it searches [n_start, n_end) for
// counterexamples to 8n+3 = a² + 2p, printing the self-test, progress, and
// results banners to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/jhg023/8n3-prime-search/internal/logging"
	"github.com/jhg023/8n3-prime-search/internal/numfmt"
	"github.com/jhg023/8n3-prime-search/internal/progress"
	"github.com/jhg023/8n3-prime-search/internal/search"
	"github.com/jhg023/8n3-prime-search/internal/sieve"
)

var (
	threads        int
	sieveThreshold uint64
	logLevel       string
	help           bool
)

func init() {
	flag.IntVar(&threads, "threads", progress.GetCPUCount(), "Number of worker goroutines")
	flag.Uint64Var(&sieveThreshold, "sieve-threshold", 0, "Prime sieve threshold (0 disables the sieve)")
	flag.StringVar(&logLevel, "log-level", "info", "Diagnostic log verbosity (debug, info, warn, error)")
	flag.BoolVar(&help, "h", false, "Show usage")
	flag.BoolVar(&help, "help", false, "Show usage")
	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [n_start] [n_end]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Search for counterexamples to: 8n + 3 = a^2 + 2p\n\n")
	fmt.Fprintf(os.Stderr, "For each n in [n_start, n_end), attempts to find odd a and prime p\n")
	fmt.Fprintf(os.Stderr, "such that 8n + 3 = a^2 + 2p. Reports any n for which no solution exists.\n\n")
	fmt.Fprintf(os.Stderr, "Arguments:\n")
	fmt.Fprintf(os.Stderr, "  n_start   Starting value of n (inclusive), default: 1e12\n")
	fmt.Fprintf(os.Stderr, "  n_end     Ending value of n (exclusive), default: n_start + 1e6\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nNumbers can be in scientific notation (e.g., 1e9, 2.5e6)\n\n")
	fmt.Fprintf(os.Stderr, "Exit codes:\n")
	fmt.Fprintf(os.Stderr, "  0  Search completed, no counterexamples found\n")
	fmt.Fprintf(os.Stderr, "  1  Error (invalid arguments, verification failure)\n")
	fmt.Fprintf(os.Stderr, "  2  Counterexample found\n")
}

func main() {
	flag.Parse()
	if help {
		printUsage()
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

	cfg := search.Config{NStart: nStart, NEnd: nEnd, Threads: threads, SieveThreshold: sieveThreshold}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Println("==================================================================")
	fmt.Println("     Counterexample Search: 8n + 3 = a^2 + 2p                     ")
	fmt.Println("     Two-round hashed-witness Miller-Rabin primality test         ")
	fmt.Println("==================================================================")
	fmt.Printf("CPU: %s (%d logical cores)", cpuid.CPU.BrandName, cpuid.CPU.LogicalCores)
	if cpuid.CPU.Supports(cpuid.ADX, cpuid.BMI2) {
		fmt.Print(" [ADX+BMI2: wide mulmod fast path available]")
	}
	fmt.Println()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  Range: n in [%s, %s)\n", numfmt.Comma(cfg.NStart), numfmt.Comma(cfg.NEnd))
	fmt.Printf("  Count: %s values\n", numfmt.Comma(cfg.Count()))
	fmt.Printf("  Threads: %d\n", cfg.Threads)
	if cfg.SieveThreshold > 0 {
		fmt.Printf("  Sieve threshold: %s\n", numfmt.Comma(cfg.SieveThreshold))
	}
	fmt.Println()

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

	var sv *sieve.Wheel
	if cfg.SieveThreshold > 0 {
		fmt.Printf("Building sieve up to %s...\n", numfmt.Comma(cfg.SieveThreshold))
		bar := progress.NewProgressBar(100, "Sieve build")
		sv = sieve.New(cfg.SieveThreshold, cfg.Threads, func(done, total int) {
			bar.SetCompleted(int64(100 * done / total))
		})
		bar.Finish()
		fmt.Printf("Sieve built in %s (%s)\n\n", numfmt.Duration(bar.Elapsed()), numfmt.Bytes(sv.MemoryBytes()))
	}

	fmt.Println("Starting search...")
	fmt.Println()

	driver := search.NewDriver(cfg, sv, logger, os.Stdout)
	globalStart := time.Now()
	summary, err := driver.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	elapsed := time.Since(globalStart)

	fmt.Println()
	fmt.Println("==================================================================")
	fmt.Println("RESULTS")
	fmt.Println("==================================================================")
	fmt.Println()
	fmt.Printf("Total time:           %.1f seconds\n", elapsed.Seconds())
	fmt.Printf("Total throughput:     %s n/sec\n", numfmt.Comma(uint64(float64(summary.Totals.NProcessed)/elapsed.Seconds())))
	fmt.Printf("Counterexamples:      %d\n", len(summary.Counterexamples))
	fmt.Printf("Maximum a observed:   %s (at n = %s)\n", numfmt.Comma(summary.MaxA), numfmt.Comma(summary.MaxAN))
	if sv != nil {
		total := summary.Totals.SieveHits + summary.Totals.SieveMisses
		if total > 0 {
			fmt.Printf("Sieve hit rate:       %.1f%%\n", 100*summary.Totals.SieveHitRate())
		}
	}

	if len(summary.Counterexamples) > 0 {
		os.Exit(2)
	}
	os.Exit(0)
}
