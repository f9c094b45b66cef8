// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The presentation pipeline uses it to reject uploads without a picture
// stream, to skip speech analysis for silent clips, and to report clip
// duration and frame rate.
package ffprobe
