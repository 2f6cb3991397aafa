// Package audiolang turns repeated, unreliable Whisper transcription
// attempts into a single language verdict per audio track.
//
// One attempt produces an Evidence record (detected language, blended
// confidence, transcript shape). The verdict classifier decides whether that
// evidence shows real speech or an ASR hallucination, and the detector
// drives sampled-segment retries with a full-track escalation and a
// majority-vote fallback. Positive "no speech" evidence from a full-track
// pass is trusted unconditionally: mislabeling silence as a language is
// costlier for archive metadata than the reverse.
package audiolang
