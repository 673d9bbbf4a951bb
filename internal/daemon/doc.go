// Package daemon coordinates the long-running Spyglass process and its HTTP
// surface.
//
// It wires configuration, the bookmark store, the Frigate client, and the
// media source into a single lifecycle with flock-based locking to prevent
// multiple instances. The daemon exposes the browse, resolve, events, summary,
// and bookmark endpoints and reports runtime status for the CLI.
//
// Keep orchestration logic here: browse semantics live in the media package
// and recorder access in the frigate package, while the daemon focuses on
// startup, shutdown, and request plumbing.
package daemon
