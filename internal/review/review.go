package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wordcore/internal/logging"
	"wordcore/internal/services"
	"wordcore/internal/srs"
	"wordcore/internal/store"
)

// Submission is one exercise attempt as reported by the caller.
type Submission struct {
	WordID        int64  `json:"word_id"`
	Result        string `json:"result"`
	Mode          string `json:"mode"`
	ErrorType     string `json:"error_type,omitempty"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	LatencyMS     *int64 `json:"latency_ms,omitempty"`
	// At defaults to the store clock.
	At time.Time `json:"at,omitempty"`
}

// Outcome reports what a submission changed.
type Outcome struct {
	Review         store.Review     `json:"review"`
	State          store.SRSState   `json:"srs"`
	PreviousStatus store.WordStatus `json:"previous_status"`
	Status         store.WordStatus `json:"status"`
}

// Service applies submissions.
type Service struct {
	store  *store.Store
	params srs.Params
	logger *slog.Logger
}

// New returns a review service using params for scheduling.
func New(st *store.Store, params srs.Params, logger *slog.Logger) *Service {
	return &Service{store: st, params: params, logger: logging.NewComponentLogger(logger, "review")}
}

// Submit records sub and returns the updated schedule. Invalid result, mode,
// or error type values fail with services.ErrValidation before anything is
// written.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	result, ok := store.ParseResult(sub.Result)
	if !ok {
		return nil, services.Validation("review", "submit", fmt.Sprintf("invalid result %q", sub.Result))
	}
	mode, ok := store.ParseMode(sub.Mode)
	if !ok {
		return nil, services.Validation("review", "submit", fmt.Sprintf("invalid mode %q", sub.Mode))
	}
	errorType, ok := store.ParseErrorType(sub.ErrorType)
	if !ok {
		return nil, services.Validation("review", "submit", fmt.Sprintf("invalid error type %q", sub.ErrorType))
	}
	if result == store.ResultFail && errorType == "" {
		errorType = store.ErrorOther
	}
	if sub.LatencyMS != nil && *sub.LatencyMS < 0 {
		return nil, services.Validation("review", "submit", "latency must be non-negative")
	}
	now := sub.At
	if now.IsZero() {
		now = s.store.Now()
	}
	now = now.UTC()

	ctx = services.WithWordID(ctx, sub.WordID)
	var outcome *Outcome
	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		word, err := tx.GetWord(ctx, sub.WordID)
		if err != nil {
			return err
		}
		current, err := tx.GetSRSState(ctx, sub.WordID)
		if err != nil {
			return err
		}
		state, err := s.params.ApplyReview(current, sub.WordID, result, now)
		if err != nil {
			return err
		}
		if err := tx.UpsertSRSState(ctx, state); err != nil {
			return err
		}
		recorded, err := tx.InsertReview(ctx, store.Review{
			WordID:        sub.WordID,
			ReviewAt:      now,
			Result:        result,
			Mode:          mode,
			ErrorType:     errorType,
			UserAnswer:    sub.UserAnswer,
			CorrectAnswer: sub.CorrectAnswer,
			LatencyMS:     sub.LatencyMS,
		})
		if err != nil {
			return err
		}
		status := s.params.NextStatus(word.Status, state, result)
		if status != word.Status {
			if err := tx.SetWordStatus(ctx, sub.WordID, status); err != nil {
				return err
			}
		}
		outcome = &Outcome{Review: *recorded, State: state, PreviousStatus: word.Status, Status: status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("review recorded",
		logging.String("result", string(result)),
		logging.String("mode", string(mode)),
		logging.Int("interval_days", outcome.State.IntervalDays),
		logging.Float64("ease", outcome.State.Ease),
		logging.String(logging.FieldEventType, "review_recorded"),
	)
	if outcome.Status != outcome.PreviousStatus {
		logger.Info("word status changed",
			logging.String("from", string(outcome.PreviousStatus)),
			logging.String("to", string(outcome.Status)),
			logging.String(logging.FieldEventType, "status_changed"),
		)
	}
	return outcome, nil
}
