package api

import (
	"wordcore/internal/importer"
	"wordcore/internal/policy"
	"wordcore/internal/store"
)

// SubmitReviewRequest records one exercise attempt.
type SubmitReviewRequest struct {
	WordID        int64  `json:"word_id"`
	Result        string `json:"result"`
	Mode          string `json:"mode"`
	ErrorType     string `json:"error_type,omitempty"`
	UserAnswer    string `json:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	LatencyMS     *int64 `json:"latency_ms,omitempty"`
}

// PreviewImportRequest stages candidates for a learner. Exactly one of
// Candidates, Text, or FileName/Payload is used, in that order of precedence.
type PreviewImportRequest struct {
	UserID       int64      `json:"user_id"`
	Candidates   []string   `json:"candidates,omitempty"`
	Text         string     `json:"text,omitempty"`
	FileName     string     `json:"file_name,omitempty"`
	Payload      []byte     `json:"payload,omitempty"`
	SourceName   string     `json:"source_name,omitempty"`
	SourcePath   string     `json:"source_path,omitempty"`
	ImporterRole store.Role `json:"importer_role,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Note         string     `json:"note,omitempty"`
}

// CommitImportRequest confirms a staged batch.
type CommitImportRequest struct {
	BatchID     int64            `json:"batch_id"`
	AcceptedIDs []int64          `json:"accepted_ids"`
	FinalLemmas map[int64]string `json:"final_lemmas,omitempty"`
}

// CorrectWordRequest changes a word's lemma and records the correction.
type CorrectWordRequest struct {
	WordID     int64      `json:"word_id"`
	NewLemma   string     `json:"new_lemma"`
	NewSurface string     `json:"new_surface,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Role       store.Role `json:"role"`
}

// CorrectWordResponse returns the corrected word and its ledger row.
type CorrectWordResponse struct {
	Word       *store.Word           `json:"word"`
	Correction *store.WordCorrection `json:"correction"`
}

// ListCorrectionsRequest selects ledger rows by word or by user. WordID takes
// precedence when both are set.
type ListCorrectionsRequest struct {
	UserID int64 `json:"user_id,omitempty"`
	WordID int64 `json:"word_id,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

// WordDetail is a word with its schedule, recent reviews, and history.
type WordDetail struct {
	Word        *store.WordWithSRS     `json:"word"`
	Reviews     []store.Review         `json:"reviews"`
	Corrections []store.WordCorrection `json:"corrections"`
}

// SettingsView reports the effective settings and whether they are stored.
type SettingsView struct {
	UserID   int64           `json:"user_id"`
	Settings policy.Settings `json:"settings"`
	Stored   bool            `json:"stored"`
}

// CommitSummary is the short form of a commit used in CLI output.
type CommitSummary struct {
	BatchID           int64 `json:"batch_id"`
	ImportedWords     int   `json:"imported_words"`
	SkippedDuplicates int   `json:"skipped_duplicates"`
	Rejected          int   `json:"rejected"`
}

// Summarize reduces a commit result to its counts.
func Summarize(result *importer.CommitResult) CommitSummary {
	if result == nil {
		return CommitSummary{}
	}
	return CommitSummary{
		BatchID:           result.BatchID,
		ImportedWords:     result.ImportedWords,
		SkippedDuplicates: result.SkippedDuplicates,
		Rejected:          len(result.Rejected),
	}
}
