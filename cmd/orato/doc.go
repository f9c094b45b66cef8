// Package main hosts the orato CLI entrypoint and command graph.
//
// The Cobra command tree runs the HTTP server (serve) and exposes the same
// pipelines locally: presentation analysis of a video file, message
// classification, campus assistant lookups, history inspection, and a
// readiness report. Configuration loading and logger setup live in the
// command context so subcommands only describe their output.
package main
