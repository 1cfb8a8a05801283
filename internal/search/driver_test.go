package search

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/jhg023/8n3-prime-search/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	bad := Config{NStart: 10, NEnd: 5, Threads: 1}
	assert.Error(t, bad.Validate())

	good := Config{NStart: 1, NEnd: 100, Threads: 1}
	assert.NoError(t, good.Validate())

	assert.Error(t, Config{NStart: 1, NEnd: 100, Threads: 0}.Validate())
	assert.Error(t, Config{NStart: 1, NEnd: 100, Threads: 1, BatchSize: 10}.Validate())
}

func TestRunSelfTest(t *testing.T) {
	var buf bytes.Buffer
	ok := RunSelfTest(&buf)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "PASS")
	assert.NotContains(t, buf.String(), "FAIL")

	for _, k := range knownCases {
		found := solver.Solve(k.n)
		assert.Equal(t, k.a, found.A, "n=%d: a mismatch against known solution", k.n)
		assert.Equal(t, k.p, found.P, "n=%d: p mismatch against known solution", k.n)
	}
}

// TestRunSelfTestReportsActualSolverOutput asserts that the printed "found"
// pair for each case is literally the documented known witness, not merely
// an equation-satisfying value — guarding against a self-test whose PASS
// verdict is computed solely from the hardcoded constants and never
// actually compares them against what the solver returned.
func TestRunSelfTestReportsActualSolverOutput(t *testing.T) {
	var buf bytes.Buffer
	require.True(t, RunSelfTest(&buf))

	for _, k := range knownCases {
		want := fmt.Sprintf("given (%d,%d), found (%d,%d)", k.a, k.p, k.a, k.p)
		assert.Contains(t, buf.String(), want, "n=%d: printed found pair must equal the known witness", k.n)
	}
}

func TestDriverRunMatchesPerNSolver(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{NStart: 1, NEnd: 300, Threads: 4}
	d := NewDriver(cfg, nil, nil, &out)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Terminated)
	assert.Equal(t, uint64(299), summary.Totals.NProcessed)

	for n := cfg.NStart; n < cfg.NEnd; n++ {
		want := solver.Solve(n)
		assert.True(t, want.Found, "n=%d expected solution for this range", n)
	}
}

func TestDriverSingleThreadMatchesMultiThread(t *testing.T) {
	var out1, out4 bytes.Buffer
	cfg1 := Config{NStart: 1, NEnd: 500, Threads: 1}
	cfg4 := Config{NStart: 1, NEnd: 500, Threads: 4}

	s1, err := NewDriver(cfg1, nil, nil, &out1).Run(context.Background())
	require.NoError(t, err)
	s4, err := NewDriver(cfg4, nil, nil, &out4).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, s1.MaxA, s4.MaxA)
	assert.Equal(t, len(s1.Counterexamples), len(s4.Counterexamples))
	assert.Equal(t, s1.Totals.NProcessed, s4.Totals.NProcessed)
}
