// Command gpusearch is the GPU batch driver: it dispatches uniform
// n-batches to a parallel Device and re-verifies every device-reported
// "no solution" on the CPU before it is believed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jhg023/8n3-prime-search/internal/gpu"
	"github.com/jhg023/8n3-prime-search/internal/logging"
	"github.com/jhg023/8n3-prime-search/internal/numfmt"
	"github.com/jhg023/8n3-prime-search/internal/search"
	"github.com/jhg023/8n3-prime-search/internal/solver"
)

const threadsPerGroup = 256

var (
	batchSize  uint64
	verifyOnly bool
	logLevel   string
	help       bool
)

func init() {
	flag.Uint64Var(&batchSize, "batch-size", search.DefaultBatchSize, "Number of n values per device dispatch")
	flag.BoolVar(&verifyOnly, "verify-only", false, "Run only the self-tests (known solutions, then GPU-vs-CPU differential) and exit")
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
		nEnd = nStart + 10_000_000
	}
	if len(args) >= 2 {
		v, err := numfmt.ParseNumber(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid n_end %q: %v\n", args[1], err)
			os.Exit(1)
		}
		nEnd = v
	}

	dev := gpu.NewSoftwareDevice(0)
	driver := gpu.NewDriver(dev, int(batchSize), os.Stdout)

	fmt.Println("Verifying CPU algorithm...")
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

	if err := driver.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer driver.Shutdown()

	if verifyOnly {
		ok := runDifferentialSelfTest(driver, 1000)
		if !ok {
			os.Exit(1)
		}
		fmt.Println("GPU vs CPU differential test: PASS")
		os.Exit(0)
	}

	if nStart >= nEnd {
		fmt.Fprintln(os.Stderr, "Error: n_start must be less than n_end")
		os.Exit(1)
	}

	fmt.Printf("Processing %s n values in batches of %s...\n\n", numfmt.Comma(nEnd-nStart), numfmt.Comma(batchSize))

	start := time.Now()
	var confirmed, corrected int

	batchBuf := make([]uint64, 0, batchSize)
	for n := nStart; n < nEnd; {
		batchBuf = batchBuf[:0]
		for uint64(len(batchBuf)) < batchSize && n < nEnd {
			batchBuf = append(batchBuf, n)
			n++
		}

		outcome, err := driver.DispatchBatch(batchBuf, threadsPerGroup)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		confirmed += len(outcome.ConfirmedCounterexamples)
		corrected += outcome.CorrectedFalseNegatives

		logger.Debug("batch dispatched",
			zap.Uint64("n_end", n),
			zap.Int("confirmed_total", confirmed),
			zap.Int("corrected_total", corrected))

		fmt.Printf("[GPU] n ~ %s, %s\n", numfmt.Comma(n), driver.ReportThroughput(time.Since(start)))
	}

	if corrected > 0 {
		fmt.Printf("\nWARNING: %d GPU false negatives detected and corrected by CPU verification.\n", corrected)
	}

	fmt.Println()
	fmt.Println("==================================================================")
	fmt.Println("RESULTS")
	fmt.Println("==================================================================")
	fmt.Printf("Total time:           %s\n", numfmt.Duration(time.Since(start)))
	fmt.Printf("Counterexamples:      %d\n", confirmed)

	if confirmed > 0 {
		os.Exit(2)
	}
	os.Exit(0)
}

// runDifferentialSelfTest dispatches the first count n values through the
// device and confirms the CPU agrees with every result, gating
// --verify-only's exit code.
func runDifferentialSelfTest(driver *gpu.Driver, count int) bool {
	ns := make([]uint64, count)
	for i := range ns {
		ns[i] = uint64(i + 1)
	}

	outcome, err := driver.DispatchBatch(ns, threadsPerGroup)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return false
	}

	if len(outcome.ConfirmedCounterexamples) > 0 {
		fmt.Fprintf(os.Stderr, "Differential test found unexpected counterexamples: %v\n", outcome.ConfirmedCounterexamples)
		return false
	}
	if outcome.CorrectedFalseNegatives > 0 {
		fmt.Fprintf(os.Stderr, "Differential test: device missed %d solutions the CPU found\n", outcome.CorrectedFalseNegatives)
		return false
	}
	for _, r := range outcome.Results {
		cpu := solver.Solve(r.N)
		if cpu.Found != r.Found || cpu.A != r.A || cpu.P != r.P {
			fmt.Fprintf(os.Stderr, "Differential test mismatch at n = %d: device (%d,%d), CPU (%d,%d)\n", r.N, r.A, r.P, cpu.A, cpu.P)
			return false
		}
	}
	return true
}
