// Package emotion builds a facial-emotion histogram for a presentation.
//
// Sampled frames go through the face detector; each face is cropped,
// re-encoded, and classified, and the dominant label per face is counted.
// A video in which no face could be classified yields the "No face
// detected" sentinel rather than an error.
package emotion
