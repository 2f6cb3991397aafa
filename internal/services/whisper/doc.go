// Package whisper runs faster-whisper through uv for speech recognition.
// A small embedded Python driver keeps the Go side to one JSON contract:
// language guess, language probability, and timed segments with their
// average log probability.
package whisper
