package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wordcore/internal/policy"
)

// GetParentSettings returns the stored settings for a child, or nil when the
// child has no row.
func (s *Store) GetParentSettings(ctx context.Context, childUserID int64) (*policy.Settings, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT daily_new_limit, daily_review_limit, correction_auto_accept_threshold, strict_mode, ocr_strength
         FROM parent_settings WHERE child_user_id = ?`, childUserID)
	var (
		settings policy.Settings
		strict   int
		ocr      string
	)
	err := row.Scan(&settings.DailyNewLimit, &settings.DailyReviewLimit, &settings.CorrectionAutoAcceptThreshold, &strict, &ocr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get parent settings: %w", err)
	}
	settings.StrictMode = strict != 0
	settings.OCRStrength = policy.OCRStrength(ocr)
	normalized := policy.Normalize(settings)
	return &normalized, nil
}

// SaveParentSettings upserts the normalized settings for a child.
func (s *Store) SaveParentSettings(ctx context.Context, childUserID int64, settings policy.Settings) (*policy.Settings, error) {
	if _, err := s.GetUser(ctx, childUserID); err != nil {
		return nil, err
	}
	normalized := policy.Normalize(settings)
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO parent_settings (
            child_user_id, daily_new_limit, daily_review_limit, correction_auto_accept_threshold,
            strict_mode, ocr_strength, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(child_user_id) DO UPDATE SET
            daily_new_limit = excluded.daily_new_limit,
            daily_review_limit = excluded.daily_review_limit,
            correction_auto_accept_threshold = excluded.correction_auto_accept_threshold,
            strict_mode = excluded.strict_mode,
            ocr_strength = excluded.ocr_strength,
            updated_at = excluded.updated_at`,
		childUserID,
		normalized.DailyNewLimit,
		normalized.DailyReviewLimit,
		normalized.CorrectionAutoAcceptThreshold,
		boolToInt(normalized.StrictMode),
		normalized.OCRStrength,
		formatTime(s.clock()),
	); err != nil {
		return nil, fmt.Errorf("save parent settings: %w", err)
	}
	return &normalized, nil
}
