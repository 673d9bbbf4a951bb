// Package config loads, normalizes, and validates spyglass configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FRIGATE_URL and SPYGLASS_API_TOKEN. The Config type centralizes every knob
// the daemon and CLI need, so the recorder endpoint, browse thresholds, and
// state directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log settings, and clear validation errors.
package config
