package planner

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"wordcore/internal/config"
	"wordcore/internal/logging"
	"wordcore/internal/policy"
	"wordcore/internal/services"
	"wordcore/internal/store"
)

const day = 24 * time.Hour

// Weights scales the components of a due word's priority.
type Weights struct {
	RecentErrorWindowDays int
	Overdue               float64
	Lapse                 float64
	RecentFail            float64
}

// DefaultWeights returns the baseline priority weights.
func DefaultWeights() Weights {
	return Weights{RecentErrorWindowDays: 14, Overdue: 1.0, Lapse: 0.5, RecentFail: 1.5}
}

// WeightsFromConfig copies the [planner] section into Weights.
func WeightsFromConfig(cfg config.Planner) Weights {
	return Weights{
		RecentErrorWindowDays: cfg.RecentErrorWindowDays,
		Overdue:               cfg.OverdueWeight,
		Lapse:                 cfg.LapseWeight,
		RecentFail:            cfg.RecentFailWeight,
	}
}

// ReviewItem is a due word with the inputs of its priority.
type ReviewItem struct {
	Word        store.Word     `json:"word"`
	SRS         store.SRSState `json:"srs"`
	OverdueDays float64        `json:"overdue_days"`
	RecentFails int            `json:"recent_fails"`
	Priority    float64        `json:"priority"`
}

// Plan is one day's session for a learner.
type Plan struct {
	UserID      int64        `json:"user_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	ReviewWords []ReviewItem `json:"review_words"`
	NewWords    []store.Word `json:"new_words"`
	// DueTotal counts every due word before the review cap.
	DueTotal int `json:"due_total"`
}

// Planner builds daily plans.
type Planner struct {
	store   *store.Store
	weights Weights
	logger  *slog.Logger
}

// New returns a planner over st.
func New(st *store.Store, weights Weights, logger *slog.Logger) *Planner {
	if weights.RecentErrorWindowDays <= 0 {
		weights.RecentErrorWindowDays = DefaultWeights().RecentErrorWindowDays
	}
	return &Planner{store: st, weights: weights, logger: logging.NewComponentLogger(logger, "planner")}
}

// PlanToday returns the review and new-word lists for userID at now. An
// empty plan is not an error.
func (p *Planner) PlanToday(ctx context.Context, userID int64, settings policy.Settings, now time.Time) (*Plan, error) {
	if _, err := p.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	settings = policy.Normalize(settings)
	now = now.UTC()
	failSince := now.Add(-time.Duration(p.weights.RecentErrorWindowDays) * day)

	due, err := p.store.DueCandidates(ctx, userID, now, failSince)
	if err != nil {
		return nil, err
	}
	items := make([]ReviewItem, 0, len(due))
	for _, candidate := range due {
		items = append(items, p.score(candidate, now))
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		an, bn := nextReview(a.SRS), nextReview(b.SRS)
		if !an.Equal(bn) {
			return an.Before(bn)
		}
		return a.Word.ID < b.Word.ID
	})

	plan := &Plan{UserID: userID, GeneratedAt: now, DueTotal: len(items)}
	if len(items) > settings.DailyReviewLimit {
		items = items[:settings.DailyReviewLimit]
	}
	plan.ReviewWords = items

	plan.NewWords, err = p.store.NewWordCandidates(ctx, userID, settings.DailyNewLimit)
	if err != nil {
		return nil, err
	}

	logging.WithContext(services.WithUserID(ctx, userID), p.logger).Debug("plan composed",
		logging.Int("due_total", plan.DueTotal),
		logging.Int("reviews", len(plan.ReviewWords)),
		logging.Int("new_words", len(plan.NewWords)),
	)
	return plan, nil
}

// score weighs overdue days, lapses and recent failures into a priority.
func (p *Planner) score(candidate store.DueCandidate, now time.Time) ReviewItem {
	overdue := 0.0
	if next := nextReview(candidate.SRS); !next.IsZero() && now.After(next) {
		overdue = now.Sub(next).Hours() / 24
	}
	priority := overdue*p.weights.Overdue +
		float64(candidate.SRS.Lapses)*p.weights.Lapse +
		float64(candidate.RecentFails)*p.weights.RecentFail
	return ReviewItem{
		Word:        candidate.Word,
		SRS:         candidate.SRS,
		OverdueDays: math.Round(overdue*100) / 100,
		RecentFails: candidate.RecentFails,
		Priority:    math.Round(priority*1000) / 1000,
	}
}

func nextReview(state store.SRSState) time.Time {
	if state.NextReviewAt == nil {
		return time.Time{}
	}
	return *state.NextReviewAt
}
