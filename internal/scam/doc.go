// Package scam classifies short text messages as spam or ham.
//
// Three independent signals feed the verdict: regex suspicion flags
// (DetectPatterns), a TF-IDF statistical model exported to JSON (Artifacts,
// Vectorizer, Model), and a generative model prompted for a one-word answer
// (Generative, optionally cached in Redis). Arbitrate resolves them with a
// fixed rule cascade.
package scam
