// Package bookmarks persists saved searches in SQLite.
//
// A bookmark binds a short name to a media source identifier so a filtered
// clip search or recordings path can be replayed by name from the CLI
// (spyglass browse @porch) or the HTTP API. The Store owns the database
// connection, applies embedded schema migrations on open, and retries writes
// that collide with SQLite busy locks.
//
// Names are unique; saving an existing name repoints it at a new identifier
// without disturbing its creation timestamp, so List output keeps a stable
// order.
package bookmarks
