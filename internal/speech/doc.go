// Package speech extracts coarse delivery features from a presentation's
// audio track: duration, loudness, pitch variability, and a tempo estimate
// used as a speaking-rate proxy.
//
// Audio is decoded by ffmpeg to mono PCM; the spectral work runs on gonum's
// FFT with a Hann window (2048-sample frames, 512-sample hop).
package speech
