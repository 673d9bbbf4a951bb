// Package preflight provides readiness checks for the recorder and
// filesystem paths that Spyglass depends on.
//
// These checks run in two contexts:
//   - The CLI "spyglass check" command calls RunAll and renders every result
//     so a misconfigured recorder is caught before the daemon starts.
//   - The CLI "spyglass status" command uses individual check functions
//     (CheckFrigate, ProbeRecorder) to display service health.
//
// Checks never mutate state; directory checks only probe access bits.
package preflight
