// Package ffprobe wraps the ffprobe binary for container inspection: stream
// listings with tags and dispositions, container duration, and packet counts
// for image-based subtitle tracks.
package ffprobe
