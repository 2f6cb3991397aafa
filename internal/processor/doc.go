// Package processor orchestrates a tagging run: it scans for video files,
// gates them through the processing tracker, classifies untagged audio and
// subtitle tracks, writes metadata, and aggregates a run summary. Files are
// processed strictly sequentially; a file lock on the state directory keeps
// concurrent invocations from fighting over the tracker.
package processor
