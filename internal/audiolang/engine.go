package audiolang

import "context"

// Options selects how a single transcription attempt runs.
type Options struct {
	// VADFilter enables voice-activity pre-filtering when the engine
	// supports it.
	VADFilter bool
	// Temperature is the decoding temperature. Unfiltered retries use a
	// slightly higher value to break repetitive hallucination loops.
	Temperature float64
}

// Segment is one timed transcript span returned by the engine.
type Segment struct {
	Start      float64
	End        float64
	Text       string
	AvgLogProb float64
}

// Result is the raw output of one engine invocation.
type Result struct {
	// Language is the engine's language guess, either a code ("fr") or a
	// full name ("french") depending on the engine version.
	Language string
	// LanguageProbability is the engine's own language estimate in [0, 1].
	LanguageProbability float64
	Segments            []Segment
}

// Engine abstracts the speech recognition backend. Implementations transcribe
// a mono 16 kHz WAV file and report a language guess with timed segments.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
}

// SampleSource produces audio extracted from one track of one file.
// Returned paths are temporary; the cleanup func removes them and is always
// non-nil on success.
type SampleSource interface {
	// Sample extracts a set of short windows for the given retry attempt.
	// Window positions shift between attempts to dodge silence, credits,
	// and intros.
	Sample(ctx context.Context, attempt int) (path string, cleanup func(), err error)
	// FullTrack extracts the entire audio track.
	FullTrack(ctx context.Context) (path string, cleanup func(), err error)
}
