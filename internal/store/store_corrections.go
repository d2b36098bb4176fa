package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const correctionColumns = "id, word_id, user_id, old_lemma, new_lemma, old_surface, new_surface, reason, corrected_by_role, corrected_at"

// InsertCorrection appends a ledger row inside the transaction.
func (t *Tx) InsertCorrection(ctx context.Context, correction WordCorrection) (*WordCorrection, error) {
	if correction.CorrectedAt.IsZero() {
		correction.CorrectedAt = t.clock()
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO word_corrections (
            word_id, user_id, old_lemma, new_lemma, old_surface, new_surface, reason, corrected_by_role, corrected_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		correction.WordID,
		correction.UserID,
		correction.OldLemma,
		correction.NewLemma,
		nullableString(correction.OldSurface),
		nullableString(correction.NewSurface),
		nullableString(strings.TrimSpace(correction.Reason)),
		correction.CorrectedByRole,
		formatTime(correction.CorrectedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert correction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	correction.ID = id
	correction.CorrectedAt = correction.CorrectedAt.UTC()
	return &correction, nil
}

// ListCorrectionsByUser returns the user's ledger, newest first.
func (s *Store) ListCorrectionsByUser(ctx context.Context, userID int64, limit int) ([]WordCorrection, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.queryCorrections(ctx,
		`SELECT `+correctionColumns+` FROM word_corrections WHERE user_id = ?
         ORDER BY corrected_at DESC, id DESC LIMIT ?`, userID, limit)
}

// ListCorrectionsByWord returns one word's ledger, oldest first.
func (s *Store) ListCorrectionsByWord(ctx context.Context, wordID int64) ([]WordCorrection, error) {
	return s.queryCorrections(ctx,
		`SELECT `+correctionColumns+` FROM word_corrections WHERE word_id = ?
         ORDER BY corrected_at ASC, id ASC`, wordID)
}

func (s *Store) queryCorrections(ctx context.Context, query string, args ...any) ([]WordCorrection, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var out []WordCorrection
	for rows.Next() {
		var (
			c          WordCorrection
			oldSurface sql.NullString
			newSurface sql.NullString
			reason     sql.NullString
			role       string
			at         string
		)
		if err := rows.Scan(&c.ID, &c.WordID, &c.UserID, &c.OldLemma, &c.NewLemma,
			&oldSurface, &newSurface, &reason, &role, &at); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		c.OldSurface = oldSurface.String
		c.NewSurface = newSurface.String
		c.Reason = reason.String
		c.CorrectedByRole = Role(role)
		if parsed, err := parseTimeString(at); err == nil {
			c.CorrectedAt = parsed
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
