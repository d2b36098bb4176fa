package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wordcore/internal/services"
)

const cardColumns = "id, word_id, type, path, version, content_hash, model_used, created_at"

// RecordCard stores a generated card as the next version for (word, type).
func (s *Store) RecordCard(ctx context.Context, card Card) (*Card, error) {
	cardType := strings.ToUpper(strings.TrimSpace(card.Type))
	if cardType == "" {
		return nil, services.Validation("store", "record card", "card type is required")
	}
	if strings.TrimSpace(card.Path) == "" {
		return nil, services.Validation("store", "record card", "card path is required")
	}

	var out *Card
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetWord(ctx, card.WordID); err != nil {
			return err
		}
		var version int
		if err := tx.tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) + 1 FROM cards WHERE word_id = ? AND type = ?`,
			card.WordID, cardType,
		).Scan(&version); err != nil {
			return fmt.Errorf("next card version: %w", err)
		}
		res, err := tx.tx.ExecContext(ctx,
			`INSERT INTO cards (word_id, type, path, version, content_hash, model_used, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			card.WordID, cardType, card.Path, version,
			nullableString(card.ContentHash), nullableString(card.ModelUsed), formatTime(tx.clock()),
		)
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		out, err = getCard(ctx, tx.tx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
		return err
	})
	return out, err
}

// LatestCard returns the newest card version of a type, or nil when none exist.
func (s *Store) LatestCard(ctx context.Context, wordID int64, cardType string) (*Card, error) {
	card, err := getCard(ensureContext(ctx), s.db,
		`SELECT `+cardColumns+` FROM cards WHERE word_id = ? AND type = ? ORDER BY version DESC LIMIT 1`,
		wordID, strings.ToUpper(strings.TrimSpace(cardType)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return card, err
}

func getCard(ctx context.Context, q querier, query string, args ...any) (*Card, error) {
	var (
		card       Card
		hash       sql.NullString
		model      sql.NullString
		createdRaw string
	)
	err := q.QueryRowContext(ctx, query, args...).Scan(
		&card.ID, &card.WordID, &card.Type, &card.Path, &card.Version, &hash, &model, &createdRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	card.ContentHash = hash.String
	card.ModelUsed = model.String
	if created, err := parseTimeString(createdRaw); err == nil {
		card.CreatedAt = created
	}
	return &card, nil
}
