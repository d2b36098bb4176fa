package api

import (
	"context"
	"fmt"
	"strings"

	"wordcore/internal/importer"
	"wordcore/internal/ledger"
	"wordcore/internal/logging"
	"wordcore/internal/planner"
	"wordcore/internal/review"
	"wordcore/internal/services"
	"wordcore/internal/store"
)

// SubmitReview records an attempt and returns the updated schedule.
func (s *Service) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*review.Outcome, error) {
	ctx, logger := s.begin(ctx, "submit_review")
	outcome, err := s.reviews.Submit(ctx, review.Submission{
		WordID:        req.WordID,
		Result:        req.Result,
		Mode:          req.Mode,
		ErrorType:     req.ErrorType,
		UserAnswer:    req.UserAnswer,
		CorrectAnswer: req.CorrectAnswer,
		LatencyMS:     req.LatencyMS,
	})
	if err != nil {
		return nil, failed(logger, err)
	}
	return outcome, nil
}

// PlanToday builds today's session for userID under the resolved policy.
func (s *Service) PlanToday(ctx context.Context, userID int64) (*planner.Plan, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "plan_today")
	settings, _, err := s.ResolvePolicy(ctx, userID)
	if err != nil {
		return nil, failed(logger, err)
	}
	plan, err := s.planner.PlanToday(ctx, userID, settings, s.store.Now())
	if err != nil {
		return nil, failed(logger, err)
	}
	return plan, nil
}

// PreviewImport stages a batch from explicit candidates, free text, or an
// uploaded file.
func (s *Service) PreviewImport(ctx context.Context, req PreviewImportRequest) (*importer.Preview, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, req.UserID), "preview_import")
	if err := requireUser(ctx, s.store, req.UserID); err != nil {
		return nil, failed(logger, err)
	}
	settings, _, err := s.ResolvePolicy(ctx, req.UserID)
	if err != nil {
		return nil, failed(logger, err)
	}
	scorer, err := s.scorerFor(ctx, req.UserID)
	if err != nil {
		return nil, failed(logger, err)
	}

	preq := importer.PreviewRequest{
		UserID: req.UserID,
		Source: importer.Source{
			Name:         req.SourceName,
			Path:         req.SourcePath,
			ImporterRole: req.ImporterRole,
			Tags:         req.Tags,
			Note:         req.Note,
		},
		Policy: settings,
		Scorer: scorer,
	}

	var preview *importer.Preview
	switch {
	case len(req.Candidates) > 0:
		preq.Candidates = req.Candidates
		preq.Source.Type = importer.SourceText
		preview, err = s.importer.Preview(ctx, preq)
	case strings.TrimSpace(req.Text) != "":
		preview, err = s.importer.PreviewText(ctx, preq, req.Text)
	case strings.TrimSpace(req.FileName) != "":
		preview, err = s.importer.PreviewFile(ctx, preq, req.FileName, req.Payload)
	default:
		err = services.Validation("api", "preview import", "candidates, text, or a file is required")
	}
	if err != nil {
		return nil, failed(logger, err)
	}
	return preview, nil
}

// CommitImport applies a staged batch.
func (s *Service) CommitImport(ctx context.Context, req CommitImportRequest) (*importer.CommitResult, error) {
	ctx, logger := s.begin(services.WithBatchID(ctx, req.BatchID), "commit_import")
	result, err := s.importer.Commit(ctx, importer.CommitRequest{
		BatchID:     req.BatchID,
		AcceptedIDs: req.AcceptedIDs,
		FinalLemmas: req.FinalLemmas,
	})
	if err != nil {
		return nil, failed(logger, err)
	}
	return result, nil
}

// GetImport returns a batch with its items.
func (s *Service) GetImport(ctx context.Context, batchID int64) (*importer.Batch, error) {
	ctx, logger := s.begin(services.WithBatchID(ctx, batchID), "get_import")
	batch, err := s.importer.GetBatch(ctx, batchID)
	if err != nil {
		return nil, failed(logger, err)
	}
	return batch, nil
}

// ListImports returns the learner's recent batches, newest first.
func (s *Service) ListImports(ctx context.Context, userID int64, limit int) ([]*store.Import, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "list_imports")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	batches, err := s.store.ListImports(ctx, userID, limit)
	if err != nil {
		return nil, failed(logger, err)
	}
	return batches, nil
}

// CorrectWord changes a word's lemma. A lemma owned by another word of the
// same learner fails with services.ErrLemmaCollision.
func (s *Service) CorrectWord(ctx context.Context, req CorrectWordRequest) (*CorrectWordResponse, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, req.WordID), "correct_word")
	word, correction, err := s.ledger.Correct(ctx, ledger.Correction{
		WordID:     req.WordID,
		NewLemma:   req.NewLemma,
		NewSurface: req.NewSurface,
		Reason:     req.Reason,
		Role:       req.Role,
	})
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Info("word corrected",
		logging.String("old_lemma", correction.OldLemma),
		logging.String("new_lemma", correction.NewLemma),
		logging.String(logging.FieldEventType, "word_corrected"),
	)
	return &CorrectWordResponse{Word: word, Correction: correction}, nil
}

// UpdateWordStatus sets a word's lifecycle label. Moving a word without a
// schedule into LEARNING or REVIEWING seeds one due now.
func (s *Service) UpdateWordStatus(ctx context.Context, wordID int64, status string) (*store.Word, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, wordID), "update_word_status")
	parsed, ok := store.ParseStatus(status)
	if !ok {
		return nil, failed(logger, services.Validation("api", "update word status",
			fmt.Sprintf("invalid status %q (want one of %s)", status, statusNames())))
	}
	word, err := s.store.UpdateStatus(ctx, wordID, parsed, s.params.Initial(wordID))
	if err != nil {
		return nil, failed(logger, err)
	}
	return word, nil
}

// DeleteWord removes a word and everything recorded for it.
func (s *Service) DeleteWord(ctx context.Context, userID, wordID int64) (*store.Word, error) {
	ctx, logger := s.begin(services.WithWordID(services.WithUserID(ctx, userID), wordID), "delete_word")
	word, err := s.store.DeleteWord(ctx, userID, wordID)
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Info("word deleted",
		logging.String("lemma", word.Lemma),
		logging.String(logging.FieldEventType, "word_deleted"),
	)
	return word, nil
}

// ListCorrections returns ledger rows for a word (oldest first) or for a
// learner (newest first).
func (s *Service) ListCorrections(ctx context.Context, req ListCorrectionsRequest) ([]store.WordCorrection, error) {
	ctx, logger := s.begin(ctx, "list_corrections")
	var (
		rows []store.WordCorrection
		err  error
	)
	switch {
	case req.WordID > 0:
		rows, err = s.ledger.ListByWord(ctx, req.WordID)
	case req.UserID > 0:
		rows, err = s.ledger.ListByUser(ctx, req.UserID, req.Limit)
	default:
		err = services.Validation("api", "list corrections", "word id or user id is required")
	}
	if err != nil {
		return nil, failed(logger, err)
	}
	return rows, nil
}

func statusNames() string {
	all := store.AllStatuses()
	names := make([]string, len(all))
	for i, status := range all {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}
