// Package logging assembles structured slog loggers and formatting helpers used
// across Orato.
//
// It owns the console, color (tint), and JSON handlers, fans records out to
// an optional JSON log file, and exposes context-aware helpers so pipeline
// code automatically tags log lines with request IDs, pipeline names, and
// stages. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
