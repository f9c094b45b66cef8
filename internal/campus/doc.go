// Package campus is the student assistant: a knowledge base loaded from
// JSON or YAML files, deterministic timetable, subject, and room lookups,
// and an LLM chatbot whose prompt embeds the whole knowledge base.
package campus
