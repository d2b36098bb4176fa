package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wordcore/internal/logging"
	"wordcore/internal/services"
	"wordcore/internal/store"
)

// patternWindow bounds how many recent corrections feed Patterns.
const patternWindow = 500

// Entry is one correction to record.
type Entry struct {
	WordID     int64
	UserID     int64
	OldLemma   string
	NewLemma   string
	OldSurface string
	NewSurface string
	Reason     string
	Role       store.Role
	At         time.Time
}

// Correction asks for a word's lemma to change.
type Correction struct {
	WordID     int64
	NewLemma   string
	NewSurface string
	Reason     string
	Role       store.Role
}

// Ledger reads and appends correction rows. It is the only writer of the
// word_corrections table.
type Ledger struct {
	store  *store.Store
	logger *slog.Logger
}

// New returns a ledger backed by st.
func New(st *store.Store, logger *slog.Logger) *Ledger {
	return &Ledger{store: st, logger: logging.NewComponentLogger(logger, "ledger")}
}

// Correct renames a word and records the change in one transaction. A lemma
// owned by another of the learner's words fails with
// services.ErrLemmaCollision and writes nothing.
func (l *Ledger) Correct(ctx context.Context, c Correction) (*store.Word, *store.WordCorrection, error) {
	role, ok := store.ParseRole(string(c.Role))
	if !ok {
		return nil, nil, services.Validation("ledger", "correct", fmt.Sprintf("invalid role %q", c.Role))
	}
	newLemma := strings.ToLower(strings.TrimSpace(c.NewLemma))
	if newLemma == "" {
		return nil, nil, services.Validation("ledger", "correct", "new lemma is required")
	}
	newSurface := strings.TrimSpace(c.NewSurface)
	if newSurface == "" {
		newSurface = newLemma
	}

	var (
		updated *store.Word
		row     *store.WordCorrection
	)
	err := l.store.InTx(ctx, func(tx *store.Tx) error {
		current, err := tx.GetWord(ctx, c.WordID)
		if err != nil {
			return err
		}
		row, err = l.Record(ctx, tx, Entry{
			WordID:     current.ID,
			UserID:     current.UserID,
			OldLemma:   current.Lemma,
			NewLemma:   newLemma,
			OldSurface: current.Surface,
			NewSurface: newSurface,
			Reason:     c.Reason,
			Role:       role,
		})
		if err != nil {
			return err
		}
		updated, err = tx.RenameWord(ctx, current.ID, newLemma, newSurface)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	ctx = services.WithWordID(services.WithUserID(ctx, row.UserID), row.WordID)
	logging.WithContext(ctx, l.logger).Info("correction recorded",
		logging.String("old_lemma", row.OldLemma),
		logging.String("new_lemma", row.NewLemma),
		logging.String(logging.FieldEventType, "correction_recorded"),
	)
	return updated, row, nil
}

// Record appends a correction row inside tx. The word must belong to
// entry.UserID and still carry entry.OldLemma.
func (l *Ledger) Record(ctx context.Context, tx *store.Tx, entry Entry) (*store.WordCorrection, error) {
	oldLemma := strings.ToLower(strings.TrimSpace(entry.OldLemma))
	newLemma := strings.ToLower(strings.TrimSpace(entry.NewLemma))
	if oldLemma == "" || newLemma == "" {
		return nil, services.Validation("ledger", "record", "old and new lemma are required")
	}
	if entry.Role != store.RoleParent && entry.Role != store.RoleChild {
		return nil, services.Validation("ledger", "record", fmt.Sprintf("invalid role %q", entry.Role))
	}
	word, err := tx.GetWord(ctx, entry.WordID)
	if err != nil {
		return nil, err
	}
	if word.UserID != entry.UserID {
		return nil, services.NotFound("ledger", "record", fmt.Sprintf("word %d not found for user %d", entry.WordID, entry.UserID))
	}
	if word.Lemma != oldLemma {
		return nil, services.Validation("ledger", "record",
			fmt.Sprintf("word %d is %q, not %q", entry.WordID, word.Lemma, oldLemma))
	}

	return tx.InsertCorrection(ctx, store.WordCorrection{
		WordID:          entry.WordID,
		UserID:          entry.UserID,
		OldLemma:        oldLemma,
		NewLemma:        newLemma,
		OldSurface:      strings.TrimSpace(entry.OldSurface),
		NewSurface:      strings.TrimSpace(entry.NewSurface),
		Reason:          entry.Reason,
		CorrectedByRole: entry.Role,
		CorrectedAt:     entry.At,
	})
}

// ListByUser returns the user's corrections, newest first.
func (l *Ledger) ListByUser(ctx context.Context, userID int64, limit int) ([]store.WordCorrection, error) {
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return l.store.ListCorrectionsByUser(ctx, userID, limit)
}

// ListByWord returns the history of one word, oldest first.
func (l *Ledger) ListByWord(ctx context.Context, wordID int64) ([]store.WordCorrection, error) {
	if _, err := l.store.GetWord(ctx, wordID); err != nil {
		return nil, err
	}
	return l.store.ListCorrectionsByWord(ctx, wordID)
}

// Patterns maps each corrected lemma to the lemma it was most recently
// corrected to. Surface-only corrections (old == new) map nothing.
func (l *Ledger) Patterns(ctx context.Context, userID int64) (map[string]string, error) {
	rows, err := l.store.ListCorrectionsByUser(ctx, userID, patternWindow)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	patterns := make(map[string]string, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.OldLemma]; ok {
			continue
		}
		seen[row.OldLemma] = struct{}{}
		if row.OldLemma != row.NewLemma {
			patterns[row.OldLemma] = row.NewLemma
		}
	}
	return patterns, nil
}
