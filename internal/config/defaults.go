package config

// Default returns the built-in configuration values. Thresholds mirror the
// empirically tuned values this tool has shipped with; changing them shifts
// the forced/full decision boundary for every library rescan.
func Default() Config {
	return Config{
		Paths: Paths{
			ScanDirs: []string{"."},
			StateDir: "~/.local/state/mkvlang",
			WorkDir:  "",
			LogDir:   "",
		},
		Whisper: Whisper{
			Model:                "base",
			Device:               "auto",
			ComputeType:          "auto",
			VADFilter:            true,
			VADSupported:         true,
			VADMinSpeechMillis:   250,
			VADMaxSpeechSeconds:  30,
			ConfidenceThreshold:  0.9,
			MaxRetries:           3,
			OperationTimeoutSecs: 600,
		},
		Subtitles: Subtitles{
			Enabled:             false,
			AnalyzeForced:       false,
			DetectSDH:           true,
			ConfidenceThreshold: 0.85,

			LowDensityThreshold:   3.0,
			HighDensityThreshold:  8.0,
			LowCoverageThreshold:  25.0,
			HighCoverageThreshold: 50.0,
			MinCountThreshold:     50,
			MaxCountThreshold:     300,
		},
		Processing: Processing{
			DryRun:                false,
			RemuxToMKV:            false,
			UseTracking:           true,
			ForceReprocess:        false,
			ReprocessAll:          false,
			ReprocessAllSubtitles: false,
		},
		Logging: Logging{
			Format: "",
			Level:  "info",
		},
	}
}
