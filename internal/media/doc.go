// Package media maps a Frigate server's clips and recordings onto a
// browsable media tree.
//
// Identifiers are slash-delimited strings that round-trip through the tree:
// clip searches carry a drilldown trail plus the event filters those
// drilldowns pinned, recordings mirror Frigate's on-disk folder layout, and
// single clips name one playable file. Browsing a clip search merges the
// matching events with date, camera, label, and zone drilldowns; browsing
// recordings walks the folder listing. Resolve maps an identifier to its
// playback location behind the media proxy.
package media
