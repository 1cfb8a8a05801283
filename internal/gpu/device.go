// Package gpu implements the GPU batch driver host contract.
//
// Real GPU shader compilation and device binding are deliberately not
// implemented here — that plumbing belongs to a hardware-specific binding
// this package does not attempt to fabricate. This package instead
// implements the full host-driver contract (state machine, buffer reuse,
// mandatory CPU cross-verification, split throughput reporting) against a
// Device that executes the identical solver semantics across goroutines
// rather than device threads. Swapping in a real accelerator means
// implementing Device against that hardware's binding; the driver and its
// correctness guarantees are unchanged either way.
package gpu

// Result is one device-reported outcome for a single n.
type Result struct {
	N     uint64
	A     uint64
	P     uint64
	Found bool
}

// Stats reports device-side throughput, kept distinct from wall-clock
// throughput so the driver can report both.
type Stats struct {
	TotalNProcessed uint64
	TotalDeviceTime float64 // seconds of device-busy time, cumulative
}

// Device is the host's view of an accelerator capable of evaluating the
// solver's semantics across a batch of n values in parallel. A real GPU
// binding and the goroutine-parallel SoftwareDevice both satisfy this
// contract identically from the driver's perspective.
type Device interface {
	// Bind prepares the device for dispatch: uploading the immutable
	// witness table, compiling the device program, and caching whatever
	// handle repeated dispatches need. Called exactly once before any
	// Dispatch.
	Bind() error

	// Dispatch evaluates the solver's semantics for every n in batch,
	// returning one Result per input in the same order. threadsPerGroup
	// is advisory; device implementations that have no such concept may
	// ignore it.
	Dispatch(batch []uint64, threadsPerGroup int) ([]Result, error)

	// Stats returns cumulative device-side statistics.
	Stats() Stats

	// Shutdown releases any device resources. Called exactly once.
	Shutdown() error
}
