package gpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyDevice wraps a SoftwareDevice but deliberately reports a false
// "no solution" for one chosen n, to exercise the mandatory CPU
// cross-verification path.
type flakyDevice struct {
	*SoftwareDevice
	flakyN uint64
}

func (f *flakyDevice) Dispatch(batch []uint64, threadsPerGroup int) ([]Result, error) {
	results, err := f.SoftwareDevice.Dispatch(batch, threadsPerGroup)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].N == f.flakyN {
			results[i] = Result{N: f.flakyN, Found: false}
		}
	}
	return results, nil
}

func TestDriverStateMachine(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(NewSoftwareDevice(2), 64, &out)

	assert.Equal(t, Uninitialized, d.State())
	require.NoError(t, d.Init())
	assert.Equal(t, Ready, d.State())

	_, err := d.DispatchBatch([]uint64{1, 2, 3, 4}, 256)
	require.NoError(t, err)
	assert.Equal(t, Ready, d.State())

	require.NoError(t, d.Shutdown())
	assert.Equal(t, Shutdown, d.State())
}

func TestDriverRejectsDispatchBeforeInit(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(NewSoftwareDevice(1), 64, &out)
	_, err := d.DispatchBatch([]uint64{1}, 256)
	assert.Error(t, err)
}

func TestDriverCorrectsGPUFalseNegative(t *testing.T) {
	var out bytes.Buffer
	dev := &flakyDevice{SoftwareDevice: NewSoftwareDevice(1), flakyN: 1}
	d := NewDriver(dev, 64, &out)
	require.NoError(t, d.Init())

	outcome, err := d.DispatchBatch([]uint64{1, 2, 3}, 256)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.CorrectedFalseNegatives)
	assert.Empty(t, outcome.ConfirmedCounterexamples)
	assert.Equal(t, uint64(1), d.TotalFalseNegatives())
	assert.Contains(t, out.String(), "GPU false negative")

	for _, r := range outcome.Results {
		if r.N == 1 {
			assert.True(t, r.Found)
			assert.Equal(t, uint64(1), r.A)
			assert.Equal(t, uint64(5), r.P)
		}
	}
}

func TestDriverAgreesWithCPUOverRange(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(NewSoftwareDevice(4), 256, &out)
	require.NoError(t, d.Init())

	batch := make([]uint64, 0, 1000)
	for n := uint64(1); n <= 1000; n++ {
		batch = append(batch, n)
	}
	outcome, err := d.DispatchBatch(batch, 256)
	require.NoError(t, err)
	assert.Empty(t, outcome.ConfirmedCounterexamples)
	assert.Equal(t, 0, outcome.CorrectedFalseNegatives)
}
