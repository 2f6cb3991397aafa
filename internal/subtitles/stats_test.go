package subtitles

import (
	"math"
	"testing"
)

func TestComputeStatistics(t *testing.T) {
	entries := []Entry{
		{Start: 0, End: 2},
		{Start: 10, End: 12},
		{Start: 20, End: 22},
		{Start: 42, End: 44},
	}

	stats := ComputeStatistics(entries, 120)

	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4", stats.Count)
	}
	if math.Abs(stats.TotalDuration-8) > 1e-9 {
		t.Errorf("TotalDuration = %f, want 8", stats.TotalDuration)
	}
	if math.Abs(stats.CoveragePercent-8.0/120*100) > 1e-9 {
		t.Errorf("CoveragePercent = %f", stats.CoveragePercent)
	}
	if math.Abs(stats.Density-2.0) > 1e-9 {
		t.Errorf("Density = %f, want 2.0", stats.Density)
	}
	if math.Abs(stats.AvgDuration-2.0) > 1e-9 {
		t.Errorf("AvgDuration = %f, want 2.0", stats.AvgDuration)
	}

	// Gaps are 8, 8, and 20 seconds: mean 12, variance 32.
	if math.Abs(stats.GapVariance-32.0) > 1e-9 {
		t.Errorf("GapVariance = %f, want 32", stats.GapVariance)
	}
	if len(stats.Timings) != 4 {
		t.Errorf("Timings length = %d, want 4", len(stats.Timings))
	}
}

func TestComputeStatisticsSkipsZeroDuration(t *testing.T) {
	entries := []Entry{
		{Start: 0, End: 2},
		{Start: 5, End: 5},
		{Start: 10, End: 8},
		{Start: 20, End: 24},
	}

	stats := ComputeStatistics(entries, 60)

	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4 (count includes all entries)", stats.Count)
	}
	if len(stats.Timings) != 2 {
		t.Errorf("Timings length = %d, want 2 (zero-length entries dropped)", len(stats.Timings))
	}
	if math.Abs(stats.TotalDuration-6) > 1e-9 {
		t.Errorf("TotalDuration = %f, want 6", stats.TotalDuration)
	}
	if math.Abs(stats.AvgDuration-3) > 1e-9 {
		t.Errorf("AvgDuration = %f, want 3", stats.AvgDuration)
	}
}

func TestComputeStatisticsEdgeCases(t *testing.T) {
	if stats := ComputeStatistics(nil, 120); stats.Count != 0 {
		t.Errorf("nil entries: %+v", stats)
	}
	if stats := ComputeStatistics([]Entry{{Start: 0, End: 2}}, 0); stats.Count != 0 {
		t.Errorf("zero duration: %+v", stats)
	}
	if stats := ComputeStatistics([]Entry{{Start: 0, End: 2}}, 60); stats.GapVariance != 0 {
		t.Errorf("single entry GapVariance = %f, want 0", stats.GapVariance)
	}
}
