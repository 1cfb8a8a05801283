package progress

import "testing"

func TestProgressBarCompletesWithoutPanic(t *testing.T) {
	bar := NewProgressBar(10, "test")
	for i := int64(1); i <= 10; i++ {
		bar.SetCompleted(i)
	}
	bar.Finish()
	if bar.GetCompleted() != 10 {
		t.Fatalf("expected completed=10, got %d", bar.GetCompleted())
	}
}

func TestGetCPUCountPositive(t *testing.T) {
	if GetCPUCount() < 1 {
		t.Fatal("expected at least one CPU")
	}
}

func TestProgressBarElapsedIsNonNegative(t *testing.T) {
	bar := NewProgressBar(10, "test")
	bar.SetCompleted(5)
	if bar.Elapsed() < 0 {
		t.Fatalf("expected non-negative elapsed, got %v", bar.Elapsed())
	}
}
