// Package services defines shared utilities consumed by the analysis
// pipelines and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp pipeline names, stage names, and request
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses.
//
// Subpackages hold the clients for external services (the LLM API).
package services
