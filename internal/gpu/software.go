package gpu

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhg023/8n3-prime-search/internal/solver"
	"github.com/jhg023/8n3-prime-search/internal/witness"
)

// SoftwareDevice is a goroutine-parallel Device: one goroutine slot per
// logical device thread, each running the identical per-n solver
// semantics. It stands in for an actual accelerator binding.
type SoftwareDevice struct {
	lanes int

	bound   bool
	tableOK [32]byte

	totalN    uint64
	totalTime int64 // nanoseconds, accumulated via atomic
}

// NewSoftwareDevice constructs a device with the given number of parallel
// lanes (0 selects runtime.NumCPU, the "one worker per physical core"
// default the rest of the system uses).
func NewSoftwareDevice(lanes int) *SoftwareDevice {
	if lanes <= 0 {
		lanes = runtime.NumCPU()
	}
	return &SoftwareDevice{lanes: lanes}
}

// Bind "uploads" the immutable witness table by recording its checksum —
// the software device already shares the process's witness.Table, so
// binding only records the checksum; nothing is transferred or compared.
func (d *SoftwareDevice) Bind() error {
	d.tableOK = witness.Checksum
	d.bound = true
	return nil
}

// Dispatch evaluates every n in batch across d.lanes goroutines, each
// handling a contiguous slice of the batch — the software analogue of one
// device thread per n inside a threadgroup.
func (d *SoftwareDevice) Dispatch(batch []uint64, threadsPerGroup int) ([]Result, error) {
	_ = threadsPerGroup // advisory; this device schedules by lane, not group

	start := time.Now()
	results := make([]Result, len(batch))

	lanes := d.lanes
	if lanes > len(batch) {
		lanes = len(batch)
	}
	if lanes < 1 {
		lanes = 1
	}

	chunk := (len(batch) + lanes - 1) / lanes
	var wg sync.WaitGroup
	for lane := 0; lane < lanes; lane++ {
		lo := lane * chunk
		hi := lo + chunk
		if hi > len(batch) {
			hi = len(batch)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				n := batch[i]
				r := solver.Solve(n)
				results[i] = Result{N: n, A: r.A, P: r.P, Found: r.Found}
			}
		}(lo, hi)
	}
	wg.Wait()

	atomic.AddUint64(&d.totalN, uint64(len(batch)))
	atomic.AddInt64(&d.totalTime, int64(time.Since(start)))

	return results, nil
}

// Stats returns cumulative device-side throughput counters.
func (d *SoftwareDevice) Stats() Stats {
	return Stats{
		TotalNProcessed: atomic.LoadUint64(&d.totalN),
		TotalDeviceTime: time.Duration(atomic.LoadInt64(&d.totalTime)).Seconds(),
	}
}

// Shutdown releases no resources; the software device owns none beyond
// goroutines that have already exited.
func (d *SoftwareDevice) Shutdown() error {
	d.bound = false
	return nil
}
