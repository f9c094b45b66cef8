// Package bodylang scores presenter posture and gestures from pose landmarks.
//
// An Extractor derives four measurements per frame (nose travel, shoulder
// tilt, wrist spread, and change in wrist spread). Score buckets the frames,
// blends the bucket fractions into a 0-100 confidence score, and attaches
// canonical strength, problem, and improvement labels.
package bodylang
