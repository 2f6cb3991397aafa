package extract

import "testing"

func TestSampleWindows(t *testing.T) {
	tests := []struct {
		name        string
		duration    float64
		attempt     int
		wantCount   int
		wantSeconds int
	}{
		{"feature film", 7200, 0, 5, 90},
		{"feature film retry", 7200, 1, 5, 90},
		{"long episode", 2700, 0, 4, 75},
		{"short episode", 1200, 0, 3, 60},
		{"unknown duration assumes feature", 0, 0, 5, 90},
		{"attempt beyond sets clamps to last", 1200, 9, 3, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starts, seconds := sampleWindows(tt.duration, tt.attempt)
			if len(starts) != tt.wantCount {
				t.Errorf("got %d windows, want %d", len(starts), tt.wantCount)
			}
			if seconds != tt.wantSeconds {
				t.Errorf("sample length = %d, want %d", seconds, tt.wantSeconds)
			}
		})
	}
}

func TestSampleWindowsPositions(t *testing.T) {
	starts, _ := sampleWindows(7200, 0)

	want := []int{1080, 1800, 2520, 3600, 4680}
	for i, start := range starts {
		if start != want[i] {
			t.Errorf("starts[%d] = %d, want %d", i, start, want[i])
		}
	}
}

func TestSampleWindowsRetriesShiftPositions(t *testing.T) {
	first, _ := sampleWindows(7200, 0)
	second, _ := sampleWindows(7200, 1)

	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("retry produced identical window positions")
	}
}

func TestSampleWindowsBounds(t *testing.T) {
	// Early percentages clamp up to at least 60 seconds in, late ones clamp
	// down to 85% of the duration.
	starts, _ := sampleWindows(600, 1)
	for _, start := range starts {
		if start < 30 {
			t.Errorf("start %d inside the intro skip zone", start)
		}
		if float64(start) > 600*0.85 {
			t.Errorf("start %d beyond the credits cutoff", start)
		}
	}

	starts, _ = sampleWindows(2000, 2)
	for _, start := range starts {
		if start < 100 {
			t.Errorf("start %d below 5%% minimum", start)
		}
		if float64(start) > 2000*0.85 {
			t.Errorf("start %d beyond the credits cutoff", start)
		}
	}
}

func TestAudioMappings(t *testing.T) {
	mappings := audioMappings(1, 3)
	want := []string{"0:a:1", "0:3", "a:1"}
	if len(mappings) != len(want) {
		t.Fatalf("got %d mappings, want %d", len(mappings), len(want))
	}
	for i, mapping := range mappings {
		if mapping != want[i] {
			t.Errorf("mappings[%d] = %q, want %q", i, mapping, want[i])
		}
	}
}
