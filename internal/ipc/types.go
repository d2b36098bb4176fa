package ipc

import (
	"wordcore/internal/api"
	"wordcore/internal/importer"
	"wordcore/internal/planner"
	"wordcore/internal/review"
	"wordcore/internal/store"
)

// ServiceName is the name the RPC service is registered under.
const ServiceName = "WordCore"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse describes the serving process.
type StatusResponse struct {
	PID           int    `json:"pid"`
	DatabasePath  string `json:"database_path"`
	SchemaVersion int    `json:"schema_version"`
	Integrity     bool   `json:"integrity"`
	StartedAt     string `json:"started_at"`
}

// SubmitReviewResponse wraps a review outcome.
type SubmitReviewResponse struct {
	Outcome review.Outcome `json:"outcome"`
}

// PlanTodayRequest asks for today's plan.
type PlanTodayRequest struct {
	UserID int64 `json:"user_id"`
}

// PlanTodayResponse wraps a plan.
type PlanTodayResponse struct {
	Plan planner.Plan `json:"plan"`
}

// PreviewImportResponse wraps a staged preview.
type PreviewImportResponse struct {
	Preview importer.Preview `json:"preview"`
}

// CommitImportResponse wraps a commit result.
type CommitImportResponse struct {
	Result importer.CommitResult `json:"result"`
}

// CorrectWordResponse wraps the corrected word and ledger row.
type CorrectWordResponse = api.CorrectWordResponse

// UpdateWordStatusRequest changes a word's lifecycle label.
type UpdateWordStatusRequest struct {
	WordID int64  `json:"word_id"`
	Status string `json:"status"`
}

// WordResponse carries a single word.
type WordResponse struct {
	Word store.Word `json:"word"`
}

// DeleteWordRequest removes a learner's word.
type DeleteWordRequest struct {
	UserID int64 `json:"user_id"`
	WordID int64 `json:"word_id"`
}

// ListCorrectionsResponse carries ledger rows.
type ListCorrectionsResponse struct {
	Corrections []store.WordCorrection `json:"corrections"`
}
