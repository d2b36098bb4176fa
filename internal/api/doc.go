// Package api is the facade the CLI and the IPC server call into. It wires
// the store, SRS engine, planner, import pipeline, ledger, and reports behind
// one Service and defines the request/response types that cross the RPC
// boundary.
//
// # Policy
//
// Parent settings are resolved per call: the stored row for the learner when
// one exists, otherwise the [policy] section of the config. The resolved
// value is passed explicitly into the planner and the import pipeline; those
// packages never read settings themselves.
//
// # Scoring
//
// Import previews score candidates with the dictionary scorer (built-in words
// plus import.dictionary_path). When the learner has correction history the
// dictionary scorer is wrapped in a CorrectionScorer so a previously corrected
// spelling is suggested again with capped confidence.
//
// # Request IDs
//
// Every operation tags its context with a fresh request id so log lines from
// the store, pipeline, and RPC layers can be correlated.
package api
