package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wordcore/internal/services"
)

const defaultListLimit = 200

// WordFilter narrows ListWords results.
type WordFilter struct {
	Statuses []WordStatus
	Limit    int
	Offset   int
}

// LearningFields updates descriptive word fields. Nil leaves a field unchanged.
type LearningFields struct {
	Phonetic  *string
	POS       *string
	MeaningZH []string
	MeaningEN []string
	Examples  []string
	Tags      []string
}

// CreateWord inserts a word. A lemma already owned by the user fails with
// services.ErrDuplicateLemma.
func (s *Store) CreateWord(ctx context.Context, input NewWord) (*Word, error) {
	var word *Word
	err := s.InTx(ctx, func(tx *Tx) error {
		var err error
		word, err = tx.CreateWord(ctx, input)
		return err
	})
	return word, err
}

// CreateWord inserts a word within the transaction.
func (t *Tx) CreateWord(ctx context.Context, input NewWord) (*Word, error) {
	return createWord(ctx, t.tx, t.clock(), input)
}

func createWord(ctx context.Context, q querier, now time.Time, input NewWord) (*Word, error) {
	lemma := strings.TrimSpace(input.Lemma)
	if input.UserID <= 0 {
		return nil, services.Validation("store", "create word", "user id is required")
	}
	if lemma == "" {
		return nil, services.Validation("store", "create word", "lemma is required")
	}
	status := input.Status
	if status == "" {
		status = StatusNew
	}
	if _, ok := ParseStatus(string(status)); !ok {
		return nil, services.Validation("store", "create word", fmt.Sprintf("invalid status %q", status))
	}
	surface := strings.TrimSpace(input.Surface)
	if surface == "" {
		surface = lemma
	}

	lists := make([]string, 0, 4)
	for i, values := range [][]string{input.MeaningZH, input.MeaningEN, input.Examples, input.Tags} {
		limit := maxLearningEntries
		if i == 3 {
			limit = 0
		}
		encoded, err := encodeList(values, limit)
		if err != nil {
			return nil, err
		}
		lists = append(lists, encoded)
	}

	timestamp := formatTime(now)
	res, err := q.ExecContext(ctx,
		`INSERT INTO words (
            user_id, lemma, surface, phonetic, pos, meaning_zh, meaning_en, examples, tags,
            status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.UserID,
		lemma,
		surface,
		nullableString(strings.TrimSpace(input.Phonetic)),
		nullableString(strings.TrimSpace(input.POS)),
		lists[0],
		lists[1],
		lists[2],
		lists[3],
		status,
		timestamp,
		timestamp,
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return nil, services.Wrap(services.ErrDuplicateLemma, "store", "create word", fmt.Sprintf("lemma %q already exists", lemma), nil)
		}
		if isForeignKeyErr(err) {
			return nil, services.NotFound("store", "create word", fmt.Sprintf("user %d not found", input.UserID))
		}
		return nil, fmt.Errorf("insert word: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return getWord(ctx, q, id)
}

// GetWord fetches a word by id.
func (s *Store) GetWord(ctx context.Context, id int64) (*Word, error) {
	return getWord(ensureContext(ctx), s.db, id)
}

// GetWord fetches a word inside the transaction.
func (t *Tx) GetWord(ctx context.Context, id int64) (*Word, error) {
	return getWord(ctx, t.tx, id)
}

func getWord(ctx context.Context, q querier, id int64) (*Word, error) {
	row := q.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words w WHERE w.id = ?`, id)
	word, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.NotFound("store", "get word", fmt.Sprintf("word %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	return word, nil
}

// GetWordByLemma returns the user's word for lemma, or nil when absent.
func (s *Store) GetWordByLemma(ctx context.Context, userID int64, lemma string) (*Word, error) {
	return getWordByLemma(ensureContext(ctx), s.db, userID, lemma)
}

// GetWordByLemma looks up a lemma inside the transaction.
func (t *Tx) GetWordByLemma(ctx context.Context, userID int64, lemma string) (*Word, error) {
	return getWordByLemma(ctx, t.tx, userID, lemma)
}

func getWordByLemma(ctx context.Context, q querier, userID int64, lemma string) (*Word, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+wordColumns+` FROM words w WHERE w.user_id = ? AND w.lemma = ?`,
		userID, strings.TrimSpace(lemma),
	)
	word, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get word by lemma: %w", err)
	}
	return word, nil
}

// GetWordWithSRS fetches a word joined with its scheduling row.
func (s *Store) GetWordWithSRS(ctx context.Context, id int64) (*WordWithSRS, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+wordColumns+`, `+srsColumns+`
         FROM words w LEFT JOIN srs_state s ON s.word_id = w.id
         WHERE w.id = ?`, id)
	word, err := scanWordWithSRS(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.NotFound("store", "get word", fmt.Sprintf("word %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get word with srs: %w", err)
	}
	return word, nil
}

// ListWords returns the user's words ordered by id.
func (s *Store) ListWords(ctx context.Context, userID int64, filter WordFilter) ([]*WordWithSRS, error) {
	ctx = ensureContext(ctx)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + wordColumns + `, ` + srsColumns + `
        FROM words w LEFT JOIN srs_state s ON s.word_id = w.id
        WHERE w.user_id = ?`
	args := []any{userID}
	if len(filter.Statuses) > 0 {
		query += ` AND w.status IN (` + makePlaceholders(len(filter.Statuses)) + `)`
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY w.id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var words []*WordWithSRS
	for rows.Next() {
		word, err := scanWordWithSRS(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// CountWords counts the user's words, optionally restricted to statuses.
func (s *Store) CountWords(ctx context.Context, userID int64, statuses ...WordStatus) (int, error) {
	query := `SELECT COUNT(1) FROM words WHERE user_id = ?`
	args := []any{userID}
	if len(statuses) > 0 {
		query += ` AND status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return count, nil
}

// UpdateStatus sets a word's lifecycle label. Moving a word without SRS state
// into LEARNING or REVIEWING seeds a default scheduling row due at now.
func (s *Store) UpdateStatus(ctx context.Context, wordID int64, status WordStatus, defaults SRSState) (*Word, error) {
	var word *Word
	err := s.InTx(ctx, func(tx *Tx) error {
		if err := tx.SetWordStatus(ctx, wordID, status); err != nil {
			return err
		}
		if status == StatusLearning || status == StatusReviewing {
			existing, err := tx.GetSRSState(ctx, wordID)
			if err != nil {
				return err
			}
			if existing == nil {
				now := tx.clock()
				seed := defaults
				seed.WordID = wordID
				seed.LastReviewAt = nil
				seed.NextReviewAt = &now
				seed.Streak = 0
				seed.Lapses = 0
				if err := tx.UpsertSRSState(ctx, seed); err != nil {
					return err
				}
			}
		}
		var err error
		word, err = tx.GetWord(ctx, wordID)
		return err
	})
	return word, err
}

// SetWordStatus validates and writes a status label within the transaction.
func (t *Tx) SetWordStatus(ctx context.Context, wordID int64, status WordStatus) error {
	if _, ok := ParseStatus(string(status)); !ok {
		return services.Validation("store", "update status", fmt.Sprintf("invalid status %q", status))
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE words SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(t.clock()), wordID,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireAffected(res, "update status", wordID)
}

// UpdateLearningFields rewrites the descriptive fields supplied in fields.
func (s *Store) UpdateLearningFields(ctx context.Context, wordID int64, fields LearningFields) (*Word, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if fields.Phonetic != nil {
		sets = append(sets, "phonetic = ?")
		args = append(args, nullableString(strings.TrimSpace(*fields.Phonetic)))
	}
	if fields.POS != nil {
		sets = append(sets, "pos = ?")
		args = append(args, nullableString(strings.TrimSpace(*fields.POS)))
	}
	for _, entry := range []struct {
		column string
		values []string
		limit  int
	}{
		{"meaning_zh", fields.MeaningZH, maxLearningEntries},
		{"meaning_en", fields.MeaningEN, maxLearningEntries},
		{"examples", fields.Examples, maxLearningEntries},
		{"tags", fields.Tags, 0},
	} {
		if entry.values == nil {
			continue
		}
		encoded, err := encodeList(entry.values, entry.limit)
		if err != nil {
			return nil, err
		}
		sets = append(sets, entry.column+" = ?")
		args = append(args, encoded)
	}
	if len(sets) == 0 {
		return s.GetWord(ctx, wordID)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(s.clock()), wordID)

	res, err := s.execWithRetry(ctx, `UPDATE words SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update learning fields: %w", err)
	}
	if err := requireAffected(res, "update learning fields", wordID); err != nil {
		return nil, err
	}
	return s.GetWord(ctx, wordID)
}

// RenameWord sets a word's lemma and surface within the transaction. A lemma
// owned by another of the user's words fails with services.ErrLemmaCollision.
func (t *Tx) RenameWord(ctx context.Context, wordID int64, lemma, surface string) (*Word, error) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if lemma == "" {
		return nil, services.Validation("store", "rename word", "new lemma is required")
	}
	surface = strings.TrimSpace(surface)
	if surface == "" {
		surface = lemma
	}
	current, err := t.GetWord(ctx, wordID)
	if err != nil {
		return nil, err
	}
	if lemma != current.Lemma {
		other, err := t.GetWordByLemma(ctx, current.UserID, lemma)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != current.ID {
			return nil, services.Wrap(services.ErrLemmaCollision, "store", "rename word",
				fmt.Sprintf("lemma %q already belongs to word %d", lemma, other.ID), nil)
		}
	}
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE words SET lemma = ?, surface = ?, updated_at = ? WHERE id = ?`,
		lemma, surface, formatTime(t.clock()), current.ID,
	); err != nil {
		if isUniqueConstraintErr(err) {
			return nil, services.Wrap(services.ErrLemmaCollision, "store", "rename word", fmt.Sprintf("lemma %q already exists", lemma), nil)
		}
		return nil, fmt.Errorf("update word lemma: %w", err)
	}
	return t.GetWord(ctx, current.ID)
}

// DeleteWord removes a word owned by userID and, through cascading foreign
// keys, its reviews, SRS state, cards, and corrections. It returns the
// deleted word.
func (s *Store) DeleteWord(ctx context.Context, userID, wordID int64) (*Word, error) {
	var deleted *Word
	err := s.InTx(ctx, func(tx *Tx) error {
		word, err := tx.GetWord(ctx, wordID)
		if err != nil {
			return err
		}
		if word.UserID != userID {
			return services.NotFound("store", "delete word", fmt.Sprintf("word %d not found for user %d", wordID, userID))
		}
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, wordID); err != nil {
			return fmt.Errorf("delete word: %w", err)
		}
		deleted = word
		return nil
	})
	return deleted, err
}

func requireAffected(res sql.Result, operation string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return services.NotFound("store", operation, fmt.Sprintf("word %d not found", id))
	}
	return nil
}
