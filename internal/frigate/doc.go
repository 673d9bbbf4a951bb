// Package frigate provides the minimal Frigate HTTP API client used by the
// media source.
//
// It exposes the event summary, event search, and recordings folder listings
// that browsing is built from, plus version, stats, and config lookups used by
// diagnostics. Responses are strongly typed so callers can aggregate them.
// Options allow tests to supply custom HTTP clients or timeouts without
// modifying production code.
package frigate
