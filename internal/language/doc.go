// Package language canonicalizes heterogeneous language identifiers (ISO
// 639-1/639-2 codes, Whisper language names, container tags) into a single
// stable code space, including the reserved codes "und" and "zxx".
package language
