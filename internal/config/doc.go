// Package config loads, normalizes, and validates Orato configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, applies dotenv files, and honours environment
// fallbacks such as GEMINI_API_KEY and PORT. The Config type centralizes every
// knob the API server and CLI need, from presence-gate thresholds to the
// Redis verdict cache, so they can be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
