// Package metadata writes track metadata into Matroska containers with
// mkvpropedit. Dry-run mode reports intended edits without touching files.
package metadata
