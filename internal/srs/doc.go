// Package srs implements the spaced repetition transition function and the
// status policy layered on top of it.
//
// ApplyReview is pure: it takes the current scheduling row (nil for a word
// that has never been reviewed), a PASS/FAIL outcome, and the review time,
// and returns the next row without touching storage. NextStatus maps the
// resulting streak and ease onto the word lifecycle label. Both read their
// constants from Params so deployments can tune the SM-2 style baseline
// through the [srs] config section.
package srs
