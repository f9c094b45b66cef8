// Package presentation merges the presence, speech, emotion, and body-language
// analyses of an uploaded talk into one bounded score.
//
// Merge is a pure function with defensive parsing helpers; Analyzer drives
// the stages against a video file and runs emotion and body language as two
// goroutines joined before the merge.
package presentation
