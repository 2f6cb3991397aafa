// Package subtitles classifies subtitle tracks from their timing and text:
// forced (foreign-dialogue-only) versus full transcripts via a three-tier
// statistical decision with an audio speech-overlap escalation, SDH
// detection from descriptive-sound cues, and text language identification
// with a character-script fallback.
package subtitles
