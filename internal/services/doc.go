// Package services defines shared utilities consumed by the media source,
// the HTTP API, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers, media identifiers,
//     and camera names for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures so
//     the HTTP boundary can translate them into consistent status codes.
//
// Use these helpers when wiring new request paths so operational behaviour
// (error handling, observability) stays uniform across the service.
package services
