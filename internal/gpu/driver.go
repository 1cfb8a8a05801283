package gpu

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jhg023/8n3-prime-search/internal/numfmt"
	"github.com/jhg023/8n3-prime-search/internal/solver"
)

// State is a Driver's position in the host state machine:
// Uninitialized -> Ready -> (Ready <-> Dispatching) -> Shutdown.
type State int

const (
	Uninitialized State = iota
	Ready
	Dispatching
	Shutdown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Dispatching:
		return "Dispatching"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Driver is the host-side GPU batch driver: it owns device buffer reuse
// across dispatches and mandates CPU cross-verification of every
// device-reported "no solution" before it is believed.
type Driver struct {
	dev Device
	out io.Writer

	mu    sync.Mutex
	state State

	nBatch    []uint64 // reused across dispatches
	batchSize int

	totalVerified       uint64
	totalFalseNegatives uint64
	totalProcessed      uint64
}

// NewDriver constructs a Driver bound to dev, with dispatch buffers sized
// for batchSize n values.
func NewDriver(dev Device, batchSize int, out io.Writer) *Driver {
	return &Driver{dev: dev, out: out, batchSize: batchSize, state: Uninitialized}
}

// Init transitions Uninitialized -> Ready by binding the device.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Uninitialized {
		return fmt.Errorf("gpu: Init called in state %v, expected Uninitialized", d.state)
	}
	if err := d.dev.Bind(); err != nil {
		return fmt.Errorf("gpu: device bind failed: %w", err)
	}
	d.nBatch = make([]uint64, 0, d.batchSize)
	d.state = Ready
	return nil
}

// State returns the driver's current state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Shutdown transitions to Shutdown, releasing the device. Valid from
// Ready only — a dispatch in flight must complete first.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Ready {
		return fmt.Errorf("gpu: Shutdown called in state %v, expected Ready", d.state)
	}
	err := d.dev.Shutdown()
	d.state = Shutdown
	return err
}

// BatchOutcome is the per-batch result of DispatchBatch, reporting how many
// n values were confirmed counterexamples, how many were GPU false
// negatives corrected by the CPU, and the reused result buffer.
type BatchOutcome struct {
	Results                  []Result
	ConfirmedCounterexamples []uint64
	CorrectedFalseNegatives  int
}

// DispatchBatch runs one Ready -> Dispatching -> Ready cycle over ns,
// reusing the driver's internal n-buffer, then applies mandatory CPU
// cross-verification to every device result reporting "no solution".
func (d *Driver) DispatchBatch(ns []uint64, threadsPerGroup int) (BatchOutcome, error) {
	d.mu.Lock()
	if d.state != Ready {
		d.mu.Unlock()
		return BatchOutcome{}, fmt.Errorf("gpu: DispatchBatch called in state %v, expected Ready", d.state)
	}
	d.state = Dispatching
	d.mu.Unlock()

	d.nBatch = append(d.nBatch[:0], ns...)

	results, err := d.dev.Dispatch(d.nBatch, threadsPerGroup)

	d.mu.Lock()
	d.state = Ready
	d.mu.Unlock()

	if err != nil {
		return BatchOutcome{}, fmt.Errorf("gpu: dispatch failed: %w", err)
	}

	outcome := BatchOutcome{Results: results}

	for i := range results {
		if results[i].Found {
			continue
		}

		// The GPU reports no solution — the CPU is ground truth and MUST
		// re-verify before this is believed as a counterexample.
		cpu := solver.Solve(results[i].N)
		if cpu.Found {
			outcome.CorrectedFalseNegatives++
			d.totalFalseNegatives++
			fmt.Fprintf(d.out, "\nWARNING: GPU false negative for n = %s\n", numfmt.Comma(results[i].N))
			fmt.Fprintf(d.out, "  CPU found solution: a = %d, p = %d\n", cpu.A, cpu.P)
			results[i] = Result{N: results[i].N, A: cpu.A, P: cpu.P, Found: true}
			continue
		}

		outcome.ConfirmedCounterexamples = append(outcome.ConfirmedCounterexamples, results[i].N)
		d.totalVerified++
		fmt.Fprintf(d.out, "\n*** COUNTEREXAMPLE FOUND AND VERIFIED! ***\nn = %s\nVerified by both GPU and CPU.\n\n",
			numfmt.Comma(results[i].N))
	}

	d.totalProcessed += uint64(len(ns))
	return outcome, nil
}

// TotalVerifiedCounterexamples returns the running count of
// CPU-reconfirmed counterexamples across every dispatched batch.
func (d *Driver) TotalVerifiedCounterexamples() uint64 { return d.totalVerified }

// TotalFalseNegatives returns the running count of GPU "no solution"
// results the CPU corrected.
func (d *Driver) TotalFalseNegatives() uint64 { return d.totalFalseNegatives }

// ReportThroughput renders the split wall-clock/device-clock throughput
// line.
func (d *Driver) ReportThroughput(wallElapsed time.Duration) string {
	st := d.dev.Stats()
	wallRate := float64(d.totalProcessed) / wallElapsed.Seconds()
	deviceRate := 0.0
	if st.TotalDeviceTime > 0 {
		deviceRate = float64(st.TotalNProcessed) / st.TotalDeviceTime
	}
	return fmt.Sprintf("wall rate = %s, device rate = %s", numfmt.Rate(wallRate), numfmt.Rate(deviceRate))
}
