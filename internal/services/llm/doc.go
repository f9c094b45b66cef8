// Package llm provides an OpenRouter-compatible chat client used for
// generative classification and conversational replies.
//
// This package is used by:
//   - Message classification: a strict spam/ham prompt answered in text
//   - Campus assistant: knowledge-grounded chat replies
//   - Preflight: HealthCheck verifies the API key and model
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteText: send optional system prompt plus user prompt, receive text.
// Client.CompleteJSON: send system/user prompts, receive a JSON payload.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// By default each call is attempted once. When Config.RetryAttempts is raised
// the client retries HTTP 408/429/5xx responses, empty answers, and network
// timeouts with exponential backoff (base 1s, max 10s), honouring Retry-After.
// Context cancellation aborts retries immediately.
package llm
