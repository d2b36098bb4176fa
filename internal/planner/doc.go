// Package planner composes a learner's daily session from the store.
//
// PlanToday ranks due reviews by a weighted priority score and appends the
// oldest unreviewed NEW words, each list capped by the parent settings passed
// in by the caller. Planning only reads; it never touches SRS rows or word
// status, so repeated calls with the same clock and data return the same plan.
package planner
