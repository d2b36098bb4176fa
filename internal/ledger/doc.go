// Package ledger owns the append-only word correction audit trail.
//
// Correct renames a word and appends its ledger row in one transaction;
// Record is the single write path and refuses rows that do not match the
// word's current lemma. Nothing here updates or deletes a row. Reads serve
// history display and the correction patterns that feed
// scoring.CorrectionScorer.
package ledger
