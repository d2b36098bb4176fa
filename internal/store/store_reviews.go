package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wordcore/internal/services"
)

// DueCandidate is a word whose next review is at or before the planning time.
type DueCandidate struct {
	Word        Word
	SRS         SRSState
	RecentFails int
}

// GetSRSState returns the scheduling row for a word, or nil when the word has
// never been reviewed.
func (s *Store) GetSRSState(ctx context.Context, wordID int64) (*SRSState, error) {
	return getSRSState(ensureContext(ctx), s.db, wordID)
}

// GetSRSState reads the scheduling row inside the transaction.
func (t *Tx) GetSRSState(ctx context.Context, wordID int64) (*SRSState, error) {
	return getSRSState(ctx, t.tx, wordID)
}

func getSRSState(ctx context.Context, q querier, wordID int64) (*SRSState, error) {
	row := q.QueryRowContext(ctx, `SELECT `+srsColumns+` FROM srs_state s WHERE s.word_id = ?`, wordID)
	state, err := scanSRS(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get srs state: %w", err)
	}
	return state, nil
}

// UpsertSRSState writes the full scheduling row for a word.
func (t *Tx) UpsertSRSState(ctx context.Context, state SRSState) error {
	if state.IntervalDays < 1 || state.Streak < 0 || state.Lapses < 0 {
		return services.Validation("store", "upsert srs", "interval must be >= 1 and counters non-negative")
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO srs_state (word_id, last_review_at, next_review_at, ease, interval_days, streak, lapses)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(word_id) DO UPDATE SET
             last_review_at = excluded.last_review_at,
             next_review_at = excluded.next_review_at,
             ease = excluded.ease,
             interval_days = excluded.interval_days,
             streak = excluded.streak,
             lapses = excluded.lapses`,
		state.WordID,
		nullableTime(state.LastReviewAt),
		nullableTime(state.NextReviewAt),
		state.Ease,
		state.IntervalDays,
		state.Streak,
		state.Lapses,
	)
	if err != nil {
		return fmt.Errorf("upsert srs state: %w", err)
	}
	return nil
}

// InsertReview appends an immutable review row.
func (t *Tx) InsertReview(ctx context.Context, review Review) (*Review, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO reviews (word_id, review_at, result, mode, error_type, user_answer, correct_answer, latency_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.WordID,
		formatTime(review.ReviewAt),
		review.Result,
		review.Mode,
		nullableString(string(review.ErrorType)),
		nullableString(review.UserAnswer),
		nullableString(review.CorrectAnswer),
		nullableInt64(review.LatencyMS),
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	review.ID = id
	review.ReviewAt = review.ReviewAt.UTC()
	return &review, nil
}

// ListReviews returns a word's review log, newest first.
func (s *Store) ListReviews(ctx context.Context, wordID int64, limit int) ([]Review, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, word_id, review_at, result, mode, error_type, user_answer, correct_answer, latency_ms
         FROM reviews WHERE word_id = ? ORDER BY review_at DESC, id DESC LIMIT ?`,
		wordID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var (
			review        Review
			reviewAt      string
			result        string
			mode          string
			errorType     sql.NullString
			userAnswer    sql.NullString
			correctAnswer sql.NullString
			latency       sql.NullInt64
		)
		if err := rows.Scan(&review.ID, &review.WordID, &reviewAt, &result, &mode, &errorType, &userAnswer, &correctAnswer, &latency); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if parsed, err := parseTimeString(reviewAt); err == nil {
			review.ReviewAt = parsed
		}
		review.Result = ReviewResult(result)
		review.Mode = ReviewMode(mode)
		review.ErrorType = ErrorType(errorType.String)
		review.UserAnswer = userAnswer.String
		review.CorrectAnswer = correctAnswer.String
		if latency.Valid {
			value := latency.Int64
			review.LatencyMS = &value
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// DueCandidates returns every non-suspended word of the user whose next review
// is at or before now, with its FAIL count since failSince. Ordering is left to
// the caller.
func (s *Store) DueCandidates(ctx context.Context, userID int64, now, failSince time.Time) ([]DueCandidate, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+wordColumns+`, `+srsColumns+`,
             (SELECT COUNT(1) FROM reviews r
              WHERE r.word_id = w.id AND r.result = 'FAIL' AND r.review_at >= ?) AS recent_fails
         FROM words w JOIN srs_state s ON s.word_id = w.id
         WHERE w.user_id = ? AND w.status != ? AND s.next_review_at IS NOT NULL AND s.next_review_at <= ?
         ORDER BY w.id`,
		formatTime(failSince), userID, StatusSuspended, formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("due candidates: %w", err)
	}
	defer rows.Close()

	var out []DueCandidate
	for rows.Next() {
		var (
			candidate   DueCandidate
			recentFails int
		)
		word, err := scanWordWithSRS(scannerFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &recentFails)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan due candidate: %w", err)
		}
		candidate.Word = word.Word
		if word.SRS != nil {
			candidate.SRS = *word.SRS
		}
		candidate.RecentFails = recentFails
		out = append(out, candidate)
	}
	return out, rows.Err()
}

// NewWordCandidates returns NEW words without any review, oldest first.
func (s *Store) NewWordCandidates(ctx context.Context, userID int64, limit int) ([]Word, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+wordColumns+` FROM words w
         WHERE w.user_id = ? AND w.status = ?
           AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.word_id = w.id)
         ORDER BY w.created_at ASC, w.id ASC
         LIMIT ?`,
		userID, StatusNew, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("new word candidates: %w", err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan new word: %w", err)
		}
		out = append(out, *word)
	}
	return out, rows.Err()
}

type scannerFunc func(dest ...any) error

func (f scannerFunc) Scan(dest ...any) error { return f(dest...) }
