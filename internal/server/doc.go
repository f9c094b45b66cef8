// Package server exposes the presentation, message-classification, and
// campus-assistant pipelines over HTTP.
//
// Every request passes through the same middleware chain: request id,
// panic recovery, CORS, then optional bearer-token auth. Handlers never
// surface raw internal errors except the model-loading message on
// /scam/predict, which clients rely on.
package server
