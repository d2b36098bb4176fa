// Package report builds read-only learner summaries: the weekly report, the
// mistakes list, and the lexicon export.
package report
