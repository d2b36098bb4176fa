package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wordcore/internal/textutil"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const wordColumns = "w.id, w.user_id, w.lemma, w.surface, w.phonetic, w.pos, w.meaning_zh, w.meaning_en, w.examples, w.tags, w.status, w.created_at, w.updated_at"

const srsColumns = "s.word_id, s.last_review_at, s.next_review_at, s.ease, s.interval_days, s.streak, s.lapses"

func scanWord(scanner rowScanner) (*Word, error) {
	var (
		word       Word
		phonetic   sql.NullString
		pos        sql.NullString
		meaningZH  sql.NullString
		meaningEN  sql.NullString
		examples   sql.NullString
		tags       sql.NullString
		statusStr  string
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&word.ID,
		&word.UserID,
		&word.Lemma,
		&word.Surface,
		&phonetic,
		&pos,
		&meaningZH,
		&meaningEN,
		&examples,
		&tags,
		&statusStr,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	word.Phonetic = phonetic.String
	word.POS = pos.String
	word.MeaningZH = decodeList(meaningZH.String)
	word.MeaningEN = decodeList(meaningEN.String)
	word.Examples = decodeList(examples.String)
	word.Tags = decodeList(tags.String)
	word.Status = WordStatus(statusStr)
	if created, err := parseTimeString(createdRaw.String); err == nil {
		word.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		word.UpdatedAt = updated
	}
	return &word, nil
}

// srsScan holds nullable SRS columns from a LEFT JOIN.
type srsScan struct {
	wordID       sql.NullInt64
	lastReviewAt sql.NullString
	nextReviewAt sql.NullString
	ease         sql.NullFloat64
	intervalDays sql.NullInt64
	streak       sql.NullInt64
	lapses       sql.NullInt64
}

func (s *srsScan) dest() []any {
	return []any{&s.wordID, &s.lastReviewAt, &s.nextReviewAt, &s.ease, &s.intervalDays, &s.streak, &s.lapses}
}

func (s *srsScan) state() *SRSState {
	if !s.wordID.Valid {
		return nil
	}
	state := &SRSState{
		WordID:       s.wordID.Int64,
		Ease:         s.ease.Float64,
		IntervalDays: int(s.intervalDays.Int64),
		Streak:       int(s.streak.Int64),
		Lapses:       int(s.lapses.Int64),
	}
	state.LastReviewAt = parseNullableTime(s.lastReviewAt)
	state.NextReviewAt = parseNullableTime(s.nextReviewAt)
	return state
}

func scanSRS(scanner rowScanner) (*SRSState, error) {
	var raw srsScan
	if err := scanner.Scan(raw.dest()...); err != nil {
		return nil, err
	}
	return raw.state(), nil
}

func scanWordWithSRS(scanner rowScanner) (*WordWithSRS, error) {
	var (
		word       Word
		phonetic   sql.NullString
		pos        sql.NullString
		meaningZH  sql.NullString
		meaningEN  sql.NullString
		examples   sql.NullString
		tags       sql.NullString
		statusStr  string
		createdRaw sql.NullString
		updatedRaw sql.NullString
		raw        srsScan
	)
	dest := []any{
		&word.ID, &word.UserID, &word.Lemma, &word.Surface, &phonetic, &pos,
		&meaningZH, &meaningEN, &examples, &tags, &statusStr, &createdRaw, &updatedRaw,
	}
	if err := scanner.Scan(append(dest, raw.dest()...)...); err != nil {
		return nil, err
	}
	word.Phonetic = phonetic.String
	word.POS = pos.String
	word.MeaningZH = decodeList(meaningZH.String)
	word.MeaningEN = decodeList(meaningEN.String)
	word.Examples = decodeList(examples.String)
	word.Tags = decodeList(tags.String)
	word.Status = WordStatus(statusStr)
	if created, err := parseTimeString(createdRaw.String); err == nil {
		word.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		word.UpdatedAt = updated
	}
	return &WordWithSRS{Word: word, SRS: raw.state()}, nil
}

// maxLearningEntries caps meaning and example lists.
const maxLearningEntries = 6

// encodeList stores values as a JSON array after collapsing whitespace and
// dropping empty and case-insensitive duplicate entries. limit <= 0 keeps all.
func encodeList(values []string, limit int) (string, error) {
	data, err := json.Marshal(textutil.SanitizeList(values, limit))
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

// decodeList tolerates legacy or malformed payloads by returning an empty list.
func decodeList(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return boolToInt(*value)
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func parseNullableTime(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	t, err := parseTimeString(value.String)
	if err != nil {
		return nil
	}
	return &t
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
