// Package presence implements the human-detection gate that runs before a
// presentation is analyzed.
//
// A single pass over at most FrameBudget frames feeds a Gate that succeeds
// early once High person frames are seen, and otherwise succeeds only when
// at least Low person frames were counted.
package presence
