package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wordcore/internal/config"
	"wordcore/internal/logging"
	"wordcore/internal/policy"
	"wordcore/internal/scoring"
	"wordcore/internal/services"
	"wordcore/internal/store"
	"wordcore/internal/textutil"
)

const (
	defaultMaxCandidates = 300
	maxTagCount          = 12
)

// Source describes where a batch came from.
type Source struct {
	Type         string     `json:"source_type"`
	Name         string     `json:"source_name"`
	Path         string     `json:"source_path,omitempty"`
	ImporterRole store.Role `json:"importer_role"`
	Tags         []string   `json:"tags,omitempty"`
	Note         string     `json:"note,omitempty"`
}

// PreviewRequest stages raw candidates for a learner.
type PreviewRequest struct {
	UserID     int64
	Candidates []string
	Source     Source
	Policy     policy.Settings
	// Scorer overrides the pipeline scorer for this request when set.
	Scorer scoring.Scorer
}

// PreviewItem is one staged candidate as shown for confirmation.
type PreviewItem struct {
	ID                  int64   `json:"id"`
	WordCandidate       string  `json:"word_candidate"`
	SuggestedCorrection string  `json:"suggested_correction"`
	Confidence          float64 `json:"confidence"`
	NeedsConfirmation   bool    `json:"needs_confirmation"`
	AutoAccept          bool    `json:"auto_accept"`
	Existing            bool    `json:"existing"`
}

// Preview is the result of staging a batch.
type Preview struct {
	Batch     *store.Import `json:"batch"`
	Items     []PreviewItem `json:"items"`
	Truncated int           `json:"truncated"`
}

// CommitRequest confirms a staged batch. FinalLemmas overrides the staged
// suggestion for accepted items.
type CommitRequest struct {
	BatchID     int64
	AcceptedIDs []int64
	FinalLemmas map[int64]string
}

// RejectedItem is an accepted item that could not become a word.
type RejectedItem struct {
	ItemID int64  `json:"item_id"`
	Reason string `json:"reason"`
}

// CommitResult reports the per-item outcomes of a commit.
type CommitResult struct {
	BatchID           int64          `json:"batch_id"`
	ImportedWords     int            `json:"imported_words"`
	SkippedDuplicates int            `json:"skipped_duplicates"`
	Rejected          []RejectedItem `json:"rejected"`
	Words             []store.Word   `json:"words"`
}

// Batch is a staged or committed batch with its items.
type Batch struct {
	Import *store.Import      `json:"import"`
	Items  []store.ImportItem `json:"items"`
}

// Pipeline stages and commits import batches.
type Pipeline struct {
	store         *store.Store
	scorer        scoring.Scorer
	logger        *slog.Logger
	maxCandidates int
	maxFileBytes  int64
}

// New constructs a pipeline over st. A nil scorer uses the built-in dictionary.
func New(st *store.Store, scorer scoring.Scorer, cfg config.Import, logger *slog.Logger) *Pipeline {
	if scorer == nil {
		scorer = scoring.NewDictionaryScorer()
	}
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Pipeline{
		store:         st,
		scorer:        scorer,
		logger:        logging.NewComponentLogger(logger, "importer"),
		maxCandidates: maxCandidates,
		maxFileBytes:  cfg.MaxFileBytes,
	}
}

// Preview scores, lemmatizes, and stages req.Candidates. Candidates that
// collapse to an already staged lemma are dropped. Staging never creates
// words.
func (p *Pipeline) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	if req.UserID <= 0 {
		return nil, services.Validation("importer", "preview", "user id is required")
	}
	ctx = services.WithUserID(ctx, req.UserID)
	logger := logging.WithContext(ctx, p.logger)

	scorer := req.Scorer
	if scorer == nil {
		scorer = p.scorer
	}
	settings := policy.Normalize(req.Policy)

	candidates := req.Candidates
	truncated := 0
	if len(candidates) > p.maxCandidates {
		truncated = len(candidates) - p.maxCandidates
		candidates = candidates[:p.maxCandidates]
	}

	type staged struct {
		item   store.NewImportItem
		exists bool
	}
	var (
		items []staged
		seen  = make(map[string]struct{}, len(candidates))
	)
	for _, raw := range candidates {
		candidate := strings.ToLower(textutil.CollapseSpace(raw))
		if candidate == "" {
			continue
		}
		suggestion := scorer.Score(candidate)
		lemma := CanonicalLemma(suggestion.Correction)
		if lemma == "" {
			logger.Debug("candidate dropped", logging.String("candidate", candidate), logging.String("reason", "empty lemma"))
			continue
		}
		if _, dup := seen[lemma]; dup {
			continue
		}
		seen[lemma] = struct{}{}

		needs := suggestion.NeedsConfirmation || suggestion.Confidence < settings.CorrectionAutoAcceptThreshold
		if settings.StrictMode && lemma != CanonicalLemma(candidate) {
			needs = true
		}
		existing, err := p.store.GetWordByLemma(ctx, req.UserID, lemma)
		if err != nil {
			return nil, err
		}
		items = append(items, staged{
			item: store.NewImportItem{
				WordCandidate:       suggestion.Candidate,
				SuggestedCorrection: lemma,
				Confidence:          suggestion.Confidence,
				NeedsConfirmation:   needs,
			},
			exists: existing != nil,
		})
	}
	if len(items) == 0 {
		return nil, services.Validation("importer", "preview", "no importable candidates found")
	}

	newItems := make([]store.NewImportItem, len(items))
	for i, entry := range items {
		newItems[i] = entry.item
	}
	role := req.Source.ImporterRole
	if role == "" {
		role = store.RoleParent
	}
	batch, stagedItems, err := p.store.StageImport(ctx, store.NewImport{
		UserID:       req.UserID,
		SourceType:   strings.ToUpper(strings.TrimSpace(req.Source.Type)),
		SourceName:   req.Source.Name,
		SourcePath:   req.Source.Path,
		ImporterRole: role,
		Tags:         textutil.SanitizeList(req.Source.Tags, maxTagCount),
		Note:         req.Source.Note,
	}, newItems)
	if err != nil {
		return nil, err
	}

	preview := &Preview{Batch: batch, Truncated: truncated, Items: make([]PreviewItem, len(stagedItems))}
	needsCount := 0
	for i, item := range stagedItems {
		preview.Items[i] = PreviewItem{
			ID:                  item.ID,
			WordCandidate:       item.WordCandidate,
			SuggestedCorrection: item.SuggestedCorrection,
			Confidence:          item.Confidence,
			NeedsConfirmation:   item.NeedsConfirmation,
			AutoAccept:          !item.NeedsConfirmation,
			Existing:            i < len(items) && items[i].exists,
		}
		if item.NeedsConfirmation {
			needsCount++
		}
	}

	logger.Info("import batch staged",
		logging.Int64(logging.FieldBatchID, batch.ID),
		logging.String("source_type", batch.SourceType),
		logging.Int("items", len(preview.Items)),
		logging.Int("needs_confirmation", needsCount),
		logging.Int("truncated", truncated),
		logging.String(logging.FieldEventType, "import_staged"),
	)
	return preview, nil
}

// PreviewText extracts candidates from free text and stages them.
func (p *Pipeline) PreviewText(ctx context.Context, req PreviewRequest, text string) (*Preview, error) {
	req.Candidates = ExpandPhrasal(Tokens(SanitizeUntrusted(text)))
	if req.Source.Type == "" {
		req.Source.Type = SourceText
	}
	return p.Preview(ctx, req)
}

// PreviewFile extracts a word list from an uploaded file and stages it.
func (p *Pipeline) PreviewFile(ctx context.Context, req PreviewRequest, filename string, payload []byte) (*Preview, error) {
	if p.maxFileBytes > 0 && int64(len(payload)) > p.maxFileBytes {
		return nil, services.Validation("importer", "preview file",
			fmt.Sprintf("file is %d bytes, limit is %d", len(payload), p.maxFileBytes))
	}
	text, err := ExtractText(filename, payload)
	if err != nil {
		return nil, err
	}
	req.Candidates = WordListCandidates(text, p.maxCandidates)
	req.Source.Type = SourceTypeForFile(filename)
	if req.Source.Name == "" {
		req.Source.Name = filename
	}
	return p.Preview(ctx, req)
}

// Commit applies a staged batch. Accepted items become words unless the
// learner already owns the lemma, in which case they count as skipped
// duplicates. Every other item is recorded as not accepted. A missing or
// already committed batch fails with services.ErrInvalidBatch.
func (p *Pipeline) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	ctx = services.WithBatchID(ctx, req.BatchID)
	logger := logging.WithContext(ctx, p.logger)

	var result *CommitResult
	err := p.store.InTx(ctx, func(tx *store.Tx) error {
		result = &CommitResult{BatchID: req.BatchID}

		batch, err := tx.GetImport(ctx, req.BatchID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return services.Wrap(services.ErrInvalidBatch, "importer", "commit",
					fmt.Sprintf("batch %d does not exist", req.BatchID), nil)
			}
			return err
		}
		if batch.Status != store.ImportStaged {
			return services.Wrap(services.ErrInvalidBatch, "importer", "commit",
				fmt.Sprintf("batch %d is already %s", req.BatchID, strings.ToLower(string(batch.Status))), nil)
		}

		items, err := tx.ListImportItems(ctx, req.BatchID)
		if err != nil {
			return err
		}
		known := make(map[int64]struct{}, len(items))
		for _, item := range items {
			known[item.ID] = struct{}{}
		}
		accepted := make(map[int64]struct{}, len(req.AcceptedIDs))
		for _, id := range req.AcceptedIDs {
			if _, ok := known[id]; !ok {
				return services.Validation("importer", "commit", fmt.Sprintf("item %d is not part of batch %d", id, req.BatchID))
			}
			accepted[id] = struct{}{}
		}

		for _, item := range items {
			decision := store.ItemDecision{ItemID: item.ID}
			if _, ok := accepted[item.ID]; ok {
				lemma := CanonicalLemma(item.SuggestedCorrection)
				if override, ok := req.FinalLemmas[item.ID]; ok {
					lemma = ConfirmedLemma(override)
				}
				if lemma == "" {
					result.Rejected = append(result.Rejected, RejectedItem{ItemID: item.ID, Reason: "final lemma is empty"})
				} else {
					word, err := tx.CreateWord(ctx, store.NewWord{
						UserID:  batch.UserID,
						Lemma:   lemma,
						Surface: lemma,
						Tags:    batch.Tags,
					})
					switch {
					case errors.Is(err, services.ErrDuplicateLemma):
						result.SkippedDuplicates++
						logger.Debug("duplicate lemma skipped", logging.String("lemma", lemma), logging.Int64("item_id", item.ID))
					case err != nil:
						return err
					default:
						result.ImportedWords++
						result.Words = append(result.Words, *word)
					}
					decision.Accepted = true
					decision.FinalLemma = lemma
				}
			}
			if err := tx.RecordItemDecision(ctx, decision); err != nil {
				return err
			}
		}
		return tx.MarkImportCommitted(ctx, req.BatchID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("import batch committed",
		logging.Int("imported_words", result.ImportedWords),
		logging.Int("skipped_duplicates", result.SkippedDuplicates),
		logging.Int("rejected", len(result.Rejected)),
		logging.String(logging.FieldEventType, "import_committed"),
	)
	return result, nil
}

// GetBatch returns a batch envelope with its items.
func (p *Pipeline) GetBatch(ctx context.Context, batchID int64) (*Batch, error) {
	batch, err := p.store.GetImport(ctx, batchID)
	if err != nil {
		return nil, err
	}
	items, err := p.store.ListImportItems(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &Batch{Import: batch, Items: items}, nil
}

// ConfirmedLemma normalizes a user-confirmed final lemma. Only case and
// whitespace change; the confirmed spelling is kept as typed.
func ConfirmedLemma(value string) string {
	return strings.ToLower(textutil.CollapseSpace(value))
}

// CanonicalLemma folds value, strips symbols other than apostrophes and
// hyphens, and applies SimpleLemma.
func CanonicalLemma(value string) string {
	cleaned := textutil.LettersOnly(textutil.Fold(value))
	if cleaned == "" {
		return ""
	}
	return SimpleLemma(cleaned)
}
