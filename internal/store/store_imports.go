package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wordcore/internal/services"
)

// NewImport describes a batch envelope to stage.
type NewImport struct {
	UserID       int64
	SourceType   string
	SourceName   string
	SourcePath   string
	ImporterRole Role
	Tags         []string
	Note         string
}

// NewImportItem describes one staged candidate.
type NewImportItem struct {
	WordCandidate       string
	SuggestedCorrection string
	Confidence          float64
	NeedsConfirmation   bool
}

// ItemDecision is the commit-time outcome recorded on a staged item.
type ItemDecision struct {
	ItemID     int64
	Accepted   bool
	FinalLemma string
}

const importColumns = "id, user_id, source_type, source_name, source_path, importer_role, tags, note, status, created_at, committed_at"

const importItemColumns = "id, import_id, word_candidate, suggested_correction, confidence, needs_confirmation, accepted, final_lemma"

// StageImport writes a batch envelope and its items without touching words.
func (s *Store) StageImport(ctx context.Context, batch NewImport, items []NewImportItem) (*Import, []ImportItem, error) {
	if batch.UserID <= 0 {
		return nil, nil, services.Validation("store", "stage import", "user id is required")
	}
	role, ok := ParseRole(string(batch.ImporterRole))
	if !ok {
		return nil, nil, services.Validation("store", "stage import", fmt.Sprintf("invalid importer role %q", batch.ImporterRole))
	}
	for _, item := range items {
		if item.Confidence < 0 || item.Confidence > 1 {
			return nil, nil, services.Validation("store", "stage import", fmt.Sprintf("confidence %v out of range for %q", item.Confidence, item.WordCandidate))
		}
	}
	tags, err := encodeList(batch.Tags, 0)
	if err != nil {
		return nil, nil, err
	}
	sourceType := strings.TrimSpace(batch.SourceType)
	if sourceType == "" {
		sourceType = "text"
	}

	var (
		envelope *Import
		staged   []ImportItem
	)
	err = s.InTx(ctx, func(tx *Tx) error {
		res, err := tx.tx.ExecContext(ctx,
			`INSERT INTO imports (user_id, source_type, source_name, source_path, importer_role, tags, note, status, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batch.UserID,
			sourceType,
			strings.TrimSpace(batch.SourceName),
			nullableString(strings.TrimSpace(batch.SourcePath)),
			role,
			tags,
			nullableString(strings.TrimSpace(batch.Note)),
			ImportStaged,
			formatTime(tx.clock()),
		)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "foreign key") {
				return services.NotFound("store", "stage import", fmt.Sprintf("user %d not found", batch.UserID))
			}
			return fmt.Errorf("insert import: %w", err)
		}
		importID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		for _, item := range items {
			if _, err := tx.tx.ExecContext(ctx,
				`INSERT INTO import_items (import_id, word_candidate, suggested_correction, confidence, needs_confirmation)
                 VALUES (?, ?, ?, ?, ?)`,
				importID,
				item.WordCandidate,
				item.SuggestedCorrection,
				item.Confidence,
				boolToInt(item.NeedsConfirmation),
			); err != nil {
				return fmt.Errorf("insert import item: %w", err)
			}
		}
		if envelope, err = tx.GetImport(ctx, importID); err != nil {
			return err
		}
		staged, err = tx.ListImportItems(ctx, importID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return envelope, staged, nil
}

// GetImport fetches a batch envelope.
func (s *Store) GetImport(ctx context.Context, id int64) (*Import, error) {
	return getImport(ensureContext(ctx), s.db, id)
}

// GetImport fetches a batch envelope inside the transaction.
func (t *Tx) GetImport(ctx context.Context, id int64) (*Import, error) {
	return getImport(ctx, t.tx, id)
}

func getImport(ctx context.Context, q querier, id int64) (*Import, error) {
	row := q.QueryRowContext(ctx, `SELECT `+importColumns+` FROM imports WHERE id = ?`, id)
	batch, err := scanImport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.NotFound("store", "get import", fmt.Sprintf("batch %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}
	return batch, nil
}

// ListImports returns the user's batches, newest first.
func (s *Store) ListImports(ctx context.Context, userID int64, limit int) ([]*Import, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+importColumns+` FROM imports WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []*Import
	for rows.Next() {
		batch, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, batch)
	}
	return out, rows.Err()
}

// ListImportItems returns a batch's items in staging order.
func (s *Store) ListImportItems(ctx context.Context, importID int64) ([]ImportItem, error) {
	return listImportItems(ensureContext(ctx), s.db, importID)
}

// ListImportItems returns a batch's items inside the transaction.
func (t *Tx) ListImportItems(ctx context.Context, importID int64) ([]ImportItem, error) {
	return listImportItems(ctx, t.tx, importID)
}

func listImportItems(ctx context.Context, q querier, importID int64) ([]ImportItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+importItemColumns+` FROM import_items WHERE import_id = ? ORDER BY id`, importID)
	if err != nil {
		return nil, fmt.Errorf("list import items: %w", err)
	}
	defer rows.Close()

	var out []ImportItem
	for rows.Next() {
		var (
			item       ImportItem
			needs      int
			accepted   sql.NullInt64
			finalLemma sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.ImportID, &item.WordCandidate, &item.SuggestedCorrection,
			&item.Confidence, &needs, &accepted, &finalLemma); err != nil {
			return nil, fmt.Errorf("scan import item: %w", err)
		}
		item.NeedsConfirmation = needs != 0
		if accepted.Valid {
			value := accepted.Int64 != 0
			item.Accepted = &value
		}
		item.FinalLemma = finalLemma.String
		out = append(out, item)
	}
	return out, rows.Err()
}

// RecordItemDecision sets the one-time commit outcome on a staged item.
func (t *Tx) RecordItemDecision(ctx context.Context, decision ItemDecision) error {
	accepted := decision.Accepted
	res, err := t.tx.ExecContext(ctx,
		`UPDATE import_items SET accepted = ?, final_lemma = ? WHERE id = ? AND accepted IS NULL`,
		nullableBool(&accepted), nullableString(decision.FinalLemma), decision.ItemID,
	)
	if err != nil {
		return fmt.Errorf("record item decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record item decision rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrInvalidBatch, "store", "record item decision",
			fmt.Sprintf("item %d missing or already decided", decision.ItemID), nil)
	}
	return nil
}

// MarkImportCommitted moves a STAGED batch to COMMITTED. Any other state fails
// with services.ErrInvalidBatch.
func (t *Tx) MarkImportCommitted(ctx context.Context, importID int64) error {
	now := t.clock()
	res, err := t.tx.ExecContext(ctx,
		`UPDATE imports SET status = ?, committed_at = ? WHERE id = ? AND status = ?`,
		ImportCommitted, formatTime(now), importID, ImportStaged,
	)
	if err != nil {
		return fmt.Errorf("mark import committed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark import committed rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrInvalidBatch, "store", "commit import",
			fmt.Sprintf("batch %d is not staged", importID), nil)
	}
	return nil
}

func scanImport(scanner rowScanner) (*Import, error) {
	var (
		batch        Import
		sourcePath   sql.NullString
		role         string
		tags         sql.NullString
		note         sql.NullString
		status       string
		createdRaw   string
		committedRaw sql.NullString
	)
	if err := scanner.Scan(&batch.ID, &batch.UserID, &batch.SourceType, &batch.SourceName, &sourcePath,
		&role, &tags, &note, &status, &createdRaw, &committedRaw); err != nil {
		return nil, err
	}
	batch.SourcePath = sourcePath.String
	batch.ImporterRole = Role(role)
	batch.Tags = decodeList(tags.String)
	batch.Note = note.String
	batch.Status = ImportStatus(status)
	if created, err := parseTimeString(createdRaw); err == nil {
		batch.CreatedAt = created
	}
	batch.CommittedAt = parseNullableTime(committedRaw)
	return &batch, nil
}
