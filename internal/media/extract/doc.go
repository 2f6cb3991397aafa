// Package extract pulls analyzable payloads out of media containers with
// ffmpeg: normalized WAV samples from audio tracks at percentage-based
// positions, full-track audio, and subtitle tracks as SRT or SUP files.
package extract
