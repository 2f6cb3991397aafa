package subtitles

// Span is a half-open time interval in seconds.
type Span struct {
	Start float64
	End   float64
}

// Statistics aggregates the timing metrics used for forced-subtitle
// classification. Derived once per track and never mutated.
type Statistics struct {
	// Count is the number of subtitle entries.
	Count int
	// TotalDuration is the summed display time in seconds.
	TotalDuration float64
	// CoveragePercent is displayed time over container duration, in percent.
	CoveragePercent float64
	// Density is entries per minute of container duration.
	Density float64
	// AvgDuration is the mean display time per entry in seconds.
	AvgDuration float64
	// GapVariance is the variance of gaps between consecutive entries.
	// High variance means clustered display (a forced-subtitle signature).
	GapVariance float64
	// Timings holds each entry's display span, kept for overlap analysis.
	Timings []Span
}

// ComputeStatistics derives timing statistics from parsed entries and the
// container duration in seconds.
func ComputeStatistics(entries []Entry, duration float64) Statistics {
	if len(entries) == 0 || duration <= 0 {
		return Statistics{}
	}

	var (
		total     float64
		timings   []Span
		durations []float64
	)
	for _, entry := range entries {
		entryDuration := entry.End - entry.Start
		if entryDuration <= 0 {
			continue
		}
		total += entryDuration
		timings = append(timings, Span{Start: entry.Start, End: entry.End})
		durations = append(durations, entryDuration)
	}

	stats := Statistics{
		Count:           len(entries),
		TotalDuration:   total,
		CoveragePercent: total / duration * 100,
		Density:         float64(len(entries)) / (duration / 60),
		Timings:         timings,
	}

	if len(durations) > 0 {
		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		stats.AvgDuration = sum / float64(len(durations))
	}

	var gaps []float64
	for i := 0; i+1 < len(timings); i++ {
		gap := timings[i+1].Start - timings[i].End
		if gap >= 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) > 1 {
		mean := 0.0
		for _, g := range gaps {
			mean += g
		}
		mean /= float64(len(gaps))
		variance := 0.0
		for _, g := range gaps {
			variance += (g - mean) * (g - mean)
		}
		stats.GapVariance = variance / float64(len(gaps))
	}

	return stats
}
