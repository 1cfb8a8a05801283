package search

import (
	"fmt"
	"io"

	"github.com/jhg023/8n3-prime-search/internal/prime"
	"github.com/jhg023/8n3-prime-search/internal/solver"
)

// knownCase is one of the four known solutions every run self-tests
// against before starting a search.
type knownCase struct {
	n, a, p uint64
}

var knownCases = []knownCase{
	{n: 1, a: 1, p: 5},
	{n: 2, a: 3, p: 5},
	{n: 3, a: 1, p: 13},
	{n: 4, a: 5, p: 5},
}

// RunSelfTest verifies the solver against the four mandatory known
// solutions, writing one line per case to w in the stdout literal
// contract's format. Returns false if any case fails — callers must
// translate a false return into exit code 1.
func RunSelfTest(w io.Writer) bool {
	fmt.Fprintln(w, "Verifying known solutions...")

	allPass := true
	for _, k := range knownCases {
		N := 8*k.n + 3
		equationValid := N == k.a*k.a+2*k.p
		pIsPrime := prime.IsPrimeFull(k.p)

		found := solver.Solve(k.n)
		matchesKnown := found.Found && found.A == k.a && found.P == k.p

		pass := equationValid && pIsPrime && matchesKnown
		status := "PASS"
		if !pass {
			status = "FAIL"
			allPass = false
		}

		fmt.Fprintf(w, "  n=%d: N=%d, given (%d,%d), found (%d,%d) ... %s\n",
			k.n, N, k.a, k.p, found.A, found.P, status)
	}

	return allPass
}
