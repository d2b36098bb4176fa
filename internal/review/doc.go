// Package review records exercise outcomes and advances the schedule.
//
// Submit validates the enums, then writes the review row, the next SRS state
// and the derived word status in one transaction so concurrent submissions
// for the same word cannot lose updates.
package review
