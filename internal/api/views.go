package api

import (
	"context"
	"fmt"
	"time"

	"wordcore/internal/logging"
	"wordcore/internal/policy"
	"wordcore/internal/report"
	"wordcore/internal/services"
	"wordcore/internal/store"
)

const detailReviewLimit = 20

// CreateUser provisions a parent or child account.
func (s *Service) CreateUser(ctx context.Context, role, name string) (*store.User, error) {
	ctx, logger := s.begin(ctx, "create_user")
	parsed, ok := store.ParseRole(role)
	if !ok {
		return nil, failed(logger, services.Validation("api", "create user", fmt.Sprintf("invalid role %q", role)))
	}
	user, err := s.store.CreateUser(ctx, parsed, name)
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Info("user created",
		logging.Int64(logging.FieldUserID, user.ID),
		logging.String("role", string(user.Role)),
		logging.String(logging.FieldEventType, "user_created"),
	)
	return user, nil
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	ctx, logger := s.begin(ctx, "list_users")
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, failed(logger, err)
	}
	return users, nil
}

// ListWords returns a learner's words with their schedules.
func (s *Service) ListWords(ctx context.Context, userID int64, filter store.WordFilter) ([]*store.WordWithSRS, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "list_words")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	words, err := s.store.ListWords(ctx, userID, filter)
	if err != nil {
		return nil, failed(logger, err)
	}
	return words, nil
}

// GetWord returns a word with its schedule, recent reviews, and corrections.
func (s *Service) GetWord(ctx context.Context, wordID int64) (*WordDetail, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, wordID), "get_word")
	word, err := s.store.GetWordWithSRS(ctx, wordID)
	if err != nil {
		return nil, failed(logger, err)
	}
	reviews, err := s.store.ListReviews(ctx, wordID, detailReviewLimit)
	if err != nil {
		return nil, failed(logger, err)
	}
	corrections, err := s.ledger.ListByWord(ctx, wordID)
	if err != nil {
		return nil, failed(logger, err)
	}
	return &WordDetail{Word: word, Reviews: reviews, Corrections: corrections}, nil
}

// GetSettings returns the effective settings of a learner.
func (s *Service) GetSettings(ctx context.Context, userID int64) (*SettingsView, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "get_settings")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	settings, stored, err := s.ResolvePolicy(ctx, userID)
	if err != nil {
		return nil, failed(logger, err)
	}
	return &SettingsView{UserID: userID, Settings: settings, Stored: stored}, nil
}

// UpdateSettings applies patch over the child's effective settings and
// stores the clamped result.
func (s *Service) UpdateSettings(ctx context.Context, childID int64, patch policy.Patch) (*SettingsView, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, childID), "update_settings")
	if childID <= 0 {
		return nil, failed(logger, services.Validation("api", "update settings", fmt.Sprintf("invalid user id %d", childID)))
	}
	child, err := s.store.GetUser(ctx, childID)
	if err != nil {
		return nil, failed(logger, err)
	}
	if child.Role != store.RoleChild {
		return nil, failed(logger, services.Validation("api", "update settings", "settings apply to child accounts only"))
	}
	current, _, err := s.ResolvePolicy(ctx, childID)
	if err != nil {
		return nil, failed(logger, err)
	}
	saved, err := s.store.SaveParentSettings(ctx, childID, policy.Apply(current, patch))
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Info("settings updated",
		logging.Int("daily_new_limit", saved.DailyNewLimit),
		logging.Int("daily_review_limit", saved.DailyReviewLimit),
		logging.Float64("auto_accept_threshold", saved.CorrectionAutoAcceptThreshold),
		logging.Bool("strict_mode", saved.StrictMode),
		logging.String(logging.FieldEventType, "settings_updated"),
	)
	return &SettingsView{UserID: childID, Settings: *saved, Stored: true}, nil
}

// WeeklyReport summarizes the trailing seven days.
func (s *Service) WeeklyReport(ctx context.Context, userID int64) (*report.Weekly, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "weekly_report")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	weekly, err := s.reports.WeeklyReport(ctx, userID, s.store.Now())
	if err != nil {
		return nil, failed(logger, err)
	}
	return weekly, nil
}

// Mistakes lists the most failed lemmas.
func (s *Service) Mistakes(ctx context.Context, userID int64, limit int) ([]store.Mistake, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "mistakes")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	mistakes, err := s.reports.Mistakes(ctx, userID, limit)
	if err != nil {
		return nil, failed(logger, err)
	}
	return mistakes, nil
}

// Export returns every word of the learner with review aggregates.
func (s *Service) Export(ctx context.Context, userID int64) ([]report.ExportEntry, error) {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "export")
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, failed(logger, err)
	}
	rows, err := s.reports.Export(ctx, userID)
	if err != nil {
		return nil, failed(logger, err)
	}
	return rows, nil
}

// BackupResult names the written file and any pruned predecessors.
type BackupResult struct {
	Path    string   `json:"path"`
	Pruned  []string `json:"pruned,omitempty"`
	Elapsed string   `json:"elapsed"`
}

// Backup copies the database into the backup directory and prunes copies
// older than the retention window.
func (s *Service) Backup(ctx context.Context) (*BackupResult, error) {
	ctx, logger := s.begin(ctx, "backup")
	started := time.Now()
	path, err := s.store.Backup(ctx, s.cfg.Paths.BackupDir)
	if err != nil {
		return nil, failed(logger, services.Wrap(services.ErrTransient, "api", "backup", s.cfg.Paths.BackupDir, err))
	}
	pruned := logging.PruneOldFiles(logger, s.store.Now(), s.cfg.Store.BackupRetentionDays, logging.RetentionTarget{
		Dir:     s.cfg.Paths.BackupDir,
		Pattern: store.BackupPattern,
		Exclude: []string{path},
	})
	elapsed := time.Since(started)
	logger.Info("backup written",
		logging.String("path", path),
		logging.Int("pruned", len(pruned)),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "backup_written"),
	)
	return &BackupResult{Path: path, Pruned: pruned, Elapsed: elapsed.Round(time.Millisecond).String()}, nil
}

// DeleteUser removes an account and every row it owns.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	ctx, logger := s.begin(services.WithUserID(ctx, userID), "delete_user")
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return failed(logger, err)
	}
	logger.Info("user deleted", logging.String(logging.FieldEventType, "user_deleted"))
	return nil
}

// UpdateLearningFields replaces the enrichment fields that are set in fields.
func (s *Service) UpdateLearningFields(ctx context.Context, wordID int64, fields store.LearningFields) (*store.Word, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, wordID), "update_learning_fields")
	word, err := s.store.UpdateLearningFields(ctx, wordID, fields)
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Debug("learning fields updated", logging.String("lemma", word.Lemma))
	return word, nil
}

// RecordCard registers a generated card file as the next version for its type.
func (s *Service) RecordCard(ctx context.Context, card store.Card) (*store.Card, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, card.WordID), "record_card")
	recorded, err := s.store.RecordCard(ctx, card)
	if err != nil {
		return nil, failed(logger, err)
	}
	logger.Info("card recorded",
		logging.String("type", recorded.Type),
		logging.Int("version", recorded.Version),
		logging.String(logging.FieldEventType, "card_recorded"),
	)
	return recorded, nil
}

// LatestCard returns the newest card of cardType for a word.
func (s *Service) LatestCard(ctx context.Context, wordID int64, cardType string) (*store.Card, error) {
	ctx, logger := s.begin(services.WithWordID(ctx, wordID), "latest_card")
	if _, err := s.store.GetWord(ctx, wordID); err != nil {
		return nil, failed(logger, err)
	}
	card, err := s.store.LatestCard(ctx, wordID, cardType)
	if err != nil {
		return nil, failed(logger, err)
	}
	if card == nil {
		return nil, failed(logger, services.NotFound("api", "latest card",
			fmt.Sprintf("word %d has no %s card", wordID, cardType)))
	}
	return card, nil
}
