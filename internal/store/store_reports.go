package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ReviewTotals aggregates a user's reviews since a point in time.
type ReviewTotals struct {
	ReviewCount int
	PassCount   int
	FailCount   int
	StudyDays   int
}

// Mistake summarizes FAIL reviews for one lemma.
type Mistake struct {
	Lemma               string `json:"lemma"`
	FailCount           int    `json:"fail_count"`
	SpellingErrors      int    `json:"spelling_errors"`
	ConfusionErrors     int    `json:"confusion_errors"`
	MeaningErrors       int    `json:"meaning_errors"`
	PronunciationErrors int    `json:"pronunciation_errors"`
}

// PracticeStat summarizes SPELLING/MATCH practice for one word.
type PracticeStat struct {
	WordID         int64      `json:"word_id"`
	Lemma          string     `json:"lemma"`
	Status         WordStatus `json:"status"`
	PracticeTotal  int        `json:"practice_total"`
	CorrectCount   int        `json:"correct_count"`
	SpellingTotal  int        `json:"spelling_total"`
	MatchTotal     int        `json:"match_total"`
	LastPracticeAt time.Time  `json:"last_practice_at"`
}

// ExportRow is one word with scheduling and review aggregates.
type ExportRow struct {
	Word
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
	IntervalDays int        `json:"interval_days"`
	Streak       int        `json:"streak"`
	Lapses       int        `json:"lapses"`
	TotalReviews int        `json:"total_reviews"`
	PassReviews  int        `json:"pass_reviews"`
}

// ReviewTotalsSince counts the user's reviews at or after since.
func (s *Store) ReviewTotalsSince(ctx context.Context, userID int64, since time.Time) (ReviewTotals, error) {
	var (
		totals ReviewTotals
		pass   sql.NullInt64
		fail   sql.NullInt64
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1),
                SUM(CASE WHEN r.result = 'PASS' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.result = 'FAIL' THEN 1 ELSE 0 END),
                COUNT(DISTINCT substr(r.review_at, 1, 10))
         FROM reviews r JOIN words w ON w.id = r.word_id
         WHERE w.user_id = ? AND r.review_at >= ?`,
		userID, formatTime(since),
	).Scan(&totals.ReviewCount, &pass, &fail, &totals.StudyDays)
	if err != nil {
		return ReviewTotals{}, fmt.Errorf("review totals: %w", err)
	}
	totals.PassCount = int(pass.Int64)
	totals.FailCount = int(fail.Int64)
	return totals, nil
}

// CountWordsCreatedSince counts words added at or after since.
func (s *Store) CountWordsCreatedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM words WHERE user_id = ? AND created_at >= ?`,
		userID, formatTime(since),
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new words: %w", err)
	}
	return count, nil
}

// ListMistakes returns per-lemma FAIL counts, most failed first.
func (s *Store) ListMistakes(ctx context.Context, userID int64, limit int) ([]Mistake, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT w.lemma,
                COUNT(1) AS fail_count,
                SUM(CASE WHEN r.error_type = 'SPELLING' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.error_type = 'CONFUSION' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.error_type = 'MEANING' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.error_type = 'PRONUNCIATION' THEN 1 ELSE 0 END)
         FROM reviews r JOIN words w ON w.id = r.word_id
         WHERE w.user_id = ? AND r.result = 'FAIL'
         GROUP BY w.lemma
         ORDER BY fail_count DESC, w.lemma ASC
         LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list mistakes: %w", err)
	}
	defer rows.Close()

	var out []Mistake
	for rows.Next() {
		var m Mistake
		if err := rows.Scan(&m.Lemma, &m.FailCount, &m.SpellingErrors, &m.ConfusionErrors, &m.MeaningErrors, &m.PronunciationErrors); err != nil {
			return nil, fmt.Errorf("scan mistake: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// PracticeStatsSince summarizes SPELLING and MATCH reviews per word.
func (s *Store) PracticeStatsSince(ctx context.Context, userID int64, since time.Time) ([]PracticeStat, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT w.id, w.lemma, w.status,
                COUNT(1) AS practice_total,
                SUM(CASE WHEN r.result = 'PASS' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.mode = 'SPELLING' THEN 1 ELSE 0 END),
                SUM(CASE WHEN r.mode = 'MATCH' THEN 1 ELSE 0 END),
                MAX(r.review_at) AS last_practice_at
         FROM reviews r JOIN words w ON w.id = r.word_id
         WHERE w.user_id = ? AND r.review_at >= ? AND r.mode IN ('SPELLING', 'MATCH')
         GROUP BY w.id, w.lemma, w.status
         ORDER BY practice_total DESC, last_practice_at DESC, w.lemma ASC`,
		userID, formatTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("practice stats: %w", err)
	}
	defer rows.Close()

	var out []PracticeStat
	for rows.Next() {
		var (
			stat   PracticeStat
			status string
			last   string
		)
		if err := rows.Scan(&stat.WordID, &stat.Lemma, &status, &stat.PracticeTotal, &stat.CorrectCount,
			&stat.SpellingTotal, &stat.MatchTotal, &last); err != nil {
			return nil, fmt.Errorf("scan practice stat: %w", err)
		}
		stat.Status = WordStatus(status)
		if parsed, err := parseTimeString(last); err == nil {
			stat.LastPracticeAt = parsed
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

// ExportWords returns every word of the user, most recently updated first.
func (s *Store) ExportWords(ctx context.Context, userID int64) ([]ExportRow, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+wordColumns+`, s.next_review_at, s.interval_days, s.streak, s.lapses,
                COALESCE(t.total_reviews, 0), COALESCE(t.pass_reviews, 0)
         FROM words w
         LEFT JOIN srs_state s ON s.word_id = w.id
         LEFT JOIN (
             SELECT word_id, COUNT(1) AS total_reviews,
                    SUM(CASE WHEN result = 'PASS' THEN 1 ELSE 0 END) AS pass_reviews
             FROM reviews GROUP BY word_id
         ) t ON t.word_id = w.id
         WHERE w.user_id = ?
         ORDER BY w.updated_at DESC, w.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("export words: %w", err)
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var (
			row      ExportRow
			next     sql.NullString
			interval sql.NullInt64
			streak   sql.NullInt64
			lapses   sql.NullInt64
		)
		word, err := scanWord(scannerFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &next, &interval, &streak, &lapses, &row.TotalReviews, &row.PassReviews)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		row.Word = *word
		row.NextReviewAt = parseNullableTime(next)
		row.IntervalDays = int(interval.Int64)
		row.Streak = int(streak.Int64)
		row.Lapses = int(lapses.Int64)
		out = append(out, row)
	}
	return out, rows.Err()
}
