// Package progress renders a terminal progress bar for long-running,
// bounded phases of a driver's startup — chiefly the prime sieve's
// segmented build, the only phase slow enough on large thresholds to
// warrant one. It writes to stderr so it never interleaves with the
// stdout result/progress line contract the drivers print.
package progress

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/jhg023/8n3-prime-search/internal/numfmt"
)

// ProgressBar is a simple terminal progress bar that writes to stderr,
// guarded by a mutex so any number of worker goroutines can report
// completed units concurrently.
type ProgressBar struct {
	total       int64
	completed   int64
	width       int
	startTime   time.Time
	description string
	mu          sync.Mutex
}

func NewProgressBar(total int64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		width:       40,
		description: description,
		startTime:   time.Now(),
	}
}

func (p *ProgressBar) Update(delta int64) {
	p.mu.Lock()
	p.completed += delta
	p.render()
	p.mu.Unlock()
}

func (p *ProgressBar) SetTotal(total int64) {
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
}

func (p *ProgressBar) SetDescription(desc string) {
	p.mu.Lock()
	p.description = desc
	p.mu.Unlock()
}

func (p *ProgressBar) SetCompleted(completed int64) {
	p.mu.Lock()
	p.completed = completed
	p.render()
	p.mu.Unlock()
}

func (p *ProgressBar) Finish() {
	p.mu.Lock()
	p.completed = p.total
	p.render()
	fmt.Fprintln(os.Stderr)
	p.mu.Unlock()
}

func (p *ProgressBar) GetCompleted() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Elapsed returns the wall-clock time since the bar was created, letting
// callers report a phase's total duration without tracking their own
// start time alongside the bar's.
func (p *ProgressBar) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.startTime)
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.completed) / float64(p.total)
	if percent > 1.0 {
		percent = 1.0
	}

	filled := int(percent * float64(p.width))

	elapsed := time.Since(p.startTime)
	rate := float64(p.completed) / elapsed.Seconds()

	eta := "--"
	if rate > 0 && p.completed < p.total {
		remaining := float64(p.total-p.completed) / rate
		eta = numfmt.Duration(time.Duration(remaining) * time.Second)
	}

	fmt.Fprintf(os.Stderr, "\r%s: [%s%s] %3.0f%% | %d/%d | %s | ETA %s",
		p.description,
		strings.Repeat("=", filled),
		strings.Repeat(" ", p.width-filled),
		percent*100,
		p.completed,
		p.total,
		numfmt.Rate(rate),
		eta)
}

// GetCPUCount returns the default worker/lane count every driver falls
// back to when the operator doesn't pin one explicitly.
func GetCPUCount() int {
	return runtime.NumCPU()
}
