// Package daemon assembles the long-lived service graph (LLM and vision
// clients, pipelines, knowledge base, history store, verdict cache) and runs
// the HTTP API under a single-instance lock.
//
// The CLI reuses Build for one-shot commands so local runs and the server
// exercise the same wiring.
package daemon
