// Package api defines the wire-format types shared by the HTTP server and
// the CLI. It translates history records, preflight results, and dependency
// statuses into transport-friendly DTOs so clients never couple to internal
// types.
//
// Field names use snake_case to match the payloads the web frontend already
// consumes (ml_prediction, final_prediction, response_html). Timestamps are
// RFC3339 with milliseconds.
package api
