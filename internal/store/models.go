package store

import (
	"strings"
	"time"
)

// Role identifies who owns or acted on a record.
type Role string

const (
	RoleParent Role = "PARENT"
	RoleChild  Role = "CHILD"
)

// ParseRole normalizes role input; ok is false for unknown values.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleParent:
		return RoleParent, true
	case RoleChild:
		return RoleChild, true
	}
	return "", false
}

// WordStatus is the lifecycle label of a word.
type WordStatus string

const (
	StatusNew       WordStatus = "NEW"
	StatusLearning  WordStatus = "LEARNING"
	StatusReviewing WordStatus = "REVIEWING"
	StatusMastered  WordStatus = "MASTERED"
	StatusSuspended WordStatus = "SUSPENDED"
)

var allStatuses = []WordStatus{
	StatusNew,
	StatusLearning,
	StatusReviewing,
	StatusMastered,
	StatusSuspended,
}

// AllStatuses returns every word status in lifecycle order.
func AllStatuses() []WordStatus {
	return append([]WordStatus(nil), allStatuses...)
}

// ParseStatus normalizes status input; ok is false for unknown values.
func ParseStatus(value string) (WordStatus, bool) {
	candidate := WordStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// ReviewResult is the outcome of one exercise attempt.
type ReviewResult string

const (
	ResultPass ReviewResult = "PASS"
	ResultFail ReviewResult = "FAIL"
)

// ParseResult normalizes result input.
func ParseResult(value string) (ReviewResult, bool) {
	switch ReviewResult(strings.ToUpper(strings.TrimSpace(value))) {
	case ResultPass:
		return ResultPass, true
	case ResultFail:
		return ResultFail, true
	}
	return "", false
}

// ReviewMode is the exercise type a review was recorded for.
type ReviewMode string

const (
	ModeMeaning   ReviewMode = "MEANING"
	ModeSpelling  ReviewMode = "SPELLING"
	ModeDictation ReviewMode = "DICTATION"
	ModeCloze     ReviewMode = "CLOZE"
	ModeMatch     ReviewMode = "MATCH"
)

// ParseMode normalizes mode input.
func ParseMode(value string) (ReviewMode, bool) {
	candidate := ReviewMode(strings.ToUpper(strings.TrimSpace(value)))
	switch candidate {
	case ModeMeaning, ModeSpelling, ModeDictation, ModeCloze, ModeMatch:
		return candidate, true
	}
	return "", false
}

// ErrorType classifies a failed review.
type ErrorType string

const (
	ErrorSpelling      ErrorType = "SPELLING"
	ErrorConfusion     ErrorType = "CONFUSION"
	ErrorMeaning       ErrorType = "MEANING"
	ErrorPronunciation ErrorType = "PRONUNCIATION"
	ErrorOther         ErrorType = "OTHER"
)

// ParseErrorType normalizes error type input. Empty input is valid and
// yields an empty ErrorType.
func ParseErrorType(value string) (ErrorType, bool) {
	candidate := ErrorType(strings.ToUpper(strings.TrimSpace(value)))
	switch candidate {
	case "", ErrorSpelling, ErrorConfusion, ErrorMeaning, ErrorPronunciation, ErrorOther:
		return candidate, true
	}
	return "", false
}

// User owns every other record.
type User struct {
	ID          int64     `json:"id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Word is one canonical lexicon entry for a learner.
type Word struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Lemma     string     `json:"lemma"`
	Surface   string     `json:"surface"`
	Phonetic  string     `json:"phonetic,omitempty"`
	POS       string     `json:"pos,omitempty"`
	MeaningZH []string   `json:"meaning_zh"`
	MeaningEN []string   `json:"meaning_en"`
	Examples  []string   `json:"examples"`
	Tags      []string   `json:"tags"`
	Status    WordStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewWord carries the fields accepted by CreateWord.
type NewWord struct {
	UserID    int64
	Lemma     string
	Surface   string
	Phonetic  string
	POS       string
	MeaningZH []string
	MeaningEN []string
	Examples  []string
	Tags      []string
	Status    WordStatus
}

// SRSState is the scheduling state of one word.
type SRSState struct {
	WordID       int64      `json:"word_id"`
	LastReviewAt *time.Time `json:"last_review_at,omitempty"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
	Ease         float64    `json:"ease"`
	IntervalDays int        `json:"interval_days"`
	Streak       int        `json:"streak"`
	Lapses       int        `json:"lapses"`
}

// WordWithSRS pairs a word with its optional scheduling row.
type WordWithSRS struct {
	Word
	SRS *SRSState `json:"srs,omitempty"`
}

// Review is one immutable exercise attempt.
type Review struct {
	ID            int64        `json:"id"`
	WordID        int64        `json:"word_id"`
	ReviewAt      time.Time    `json:"review_at"`
	Result        ReviewResult `json:"result"`
	Mode          ReviewMode   `json:"mode"`
	ErrorType     ErrorType    `json:"error_type,omitempty"`
	UserAnswer    string       `json:"user_answer,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	LatencyMS     *int64       `json:"latency_ms,omitempty"`
}

// ImportStatus tracks the batch state machine.
type ImportStatus string

const (
	ImportStaged    ImportStatus = "STAGED"
	ImportCommitted ImportStatus = "COMMITTED"
)

// Import is a batch envelope.
type Import struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	SourceType   string       `json:"source_type"`
	SourceName   string       `json:"source_name"`
	SourcePath   string       `json:"source_path,omitempty"`
	ImporterRole Role         `json:"importer_role"`
	Tags         []string     `json:"tags"`
	Note         string       `json:"note,omitempty"`
	Status       ImportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	CommittedAt  *time.Time   `json:"committed_at,omitempty"`
}

// ImportItem is one staged candidate in a batch.
type ImportItem struct {
	ID                  int64   `json:"id"`
	ImportID            int64   `json:"import_id"`
	WordCandidate       string  `json:"word_candidate"`
	SuggestedCorrection string  `json:"suggested_correction"`
	Confidence          float64 `json:"confidence"`
	NeedsConfirmation   bool    `json:"needs_confirmation"`
	Accepted            *bool   `json:"accepted,omitempty"`
	FinalLemma          string  `json:"final_lemma,omitempty"`
}

// WordCorrection is an append-only audit row.
type WordCorrection struct {
	ID              int64     `json:"id"`
	WordID          int64     `json:"word_id"`
	UserID          int64     `json:"user_id"`
	OldLemma        string    `json:"old_lemma"`
	NewLemma        string    `json:"new_lemma"`
	OldSurface      string    `json:"old_surface,omitempty"`
	NewSurface      string    `json:"new_surface,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	CorrectedByRole Role      `json:"corrected_by_role"`
	CorrectedAt     time.Time `json:"corrected_at"`
}

// Card records an externally generated learning card for a word.
type Card struct {
	ID          int64     `json:"id"`
	WordID      int64     `json:"word_id"`
	Type        string    `json:"type"`
	Path        string    `json:"path"`
	Version     int       `json:"version"`
	ContentHash string    `json:"content_hash,omitempty"`
	ModelUsed   string    `json:"model_used,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DatabaseHealth describes diagnostic information about the database.
type DatabaseHealth struct {
	DBPath           string         `json:"db_path"`
	DatabaseExists   bool           `json:"database_exists"`
	DatabaseReadable bool           `json:"database_readable"`
	SchemaVersion    int            `json:"schema_version"`
	MissingTables    []string       `json:"missing_tables,omitempty"`
	IntegrityCheck   bool           `json:"integrity_check"`
	RowCounts        map[string]int `json:"row_counts"`
	Error            string         `json:"error,omitempty"`
}
