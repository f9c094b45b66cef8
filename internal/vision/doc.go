// Package vision is the HTTP client for the inference sidecar.
//
// The sidecar hosts the person detector, face detector, facial emotion
// classifier, and pose estimator. Frames are uploaded as multipart JPEG and
// answers come back as JSON. The Client satisfies the small detector and
// estimator interfaces declared by the presence, emotion, and bodylang
// packages.
package vision
