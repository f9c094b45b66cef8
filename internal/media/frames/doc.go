// Package frames decodes video frames for the presentation pipeline.
//
// Frames are pulled from an ffmpeg subprocess writing an MJPEG stream to a
// pipe, split on JPEG markers, and handed out one at a time through the
// Source interface so scans can stop early without decoding the whole file.
package frames
