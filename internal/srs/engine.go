package srs

import (
	"fmt"
	"math"
	"time"

	"wordcore/internal/services"
	"wordcore/internal/store"
)

const day = 24 * time.Hour

// Initial returns the scheduling row used for a word without prior reviews.
func (p Params) Initial(wordID int64) store.SRSState {
	return store.SRSState{
		WordID:       wordID,
		Ease:         p.DefaultEase,
		IntervalDays: p.DefaultIntervalDays,
	}
}

// ApplyReview computes the scheduling row that follows a review outcome.
// A nil current state starts from Initial.
func (p Params) ApplyReview(current *store.SRSState, wordID int64, result store.ReviewResult, now time.Time) (store.SRSState, error) {
	var next store.SRSState
	if current != nil {
		next = *current
	} else {
		next = p.Initial(wordID)
	}
	if next.WordID == 0 {
		next.WordID = wordID
	}
	if next.IntervalDays < 1 {
		next.IntervalDays = p.DefaultIntervalDays
	}
	if next.Ease <= 0 {
		next.Ease = p.DefaultEase
	}

	now = now.UTC()
	switch result {
	case store.ResultPass:
		next.Streak++
		next.Ease = p.clampEase(next.Ease + p.PassEaseBonus)
		interval := int(math.Round(float64(next.IntervalDays) * next.Ease))
		next.IntervalDays = min(max(interval, 1), p.MaxIntervalDays)
	case store.ResultFail:
		next.Lapses++
		next.Streak = 0
		next.Ease = p.clampEase(next.Ease - p.FailEasePenalty)
		next.IntervalDays = 1
	default:
		return store.SRSState{}, services.Validation("srs", "apply review", fmt.Sprintf("invalid result %q", result))
	}

	due := now.Add(time.Duration(next.IntervalDays) * day)
	reviewed := now
	next.LastReviewAt = &reviewed
	next.NextReviewAt = &due
	return next, nil
}

// NextStatus derives the lifecycle label after a review. SUSPENDED words keep
// their label; a lapse on a MASTERED word demotes it to REVIEWING and any
// other lapse returns the word to LEARNING.
func (p Params) NextStatus(current store.WordStatus, state store.SRSState, result store.ReviewResult) store.WordStatus {
	if current == store.StatusSuspended {
		return current
	}
	if result == store.ResultFail {
		if current == store.StatusMastered {
			return store.StatusReviewing
		}
		return store.StatusLearning
	}
	if state.Streak >= p.MasteryStreak && state.Ease >= p.MasteryEase {
		return store.StatusMastered
	}
	if state.Streak > 0 {
		return store.StatusReviewing
	}
	return current
}

func (p Params) clampEase(value float64) float64 {
	value = math.Min(math.Max(value, p.MinEase), p.MaxEase)
	return math.Round(value*100) / 100
}
