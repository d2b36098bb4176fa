package policy

import (
	"math"
	"strings"

	"wordcore/internal/config"
)

// OCRStrength is the effort level requested from the external OCR collaborator.
type OCRStrength string

const (
	OCRFast     OCRStrength = "FAST"
	OCRBalanced OCRStrength = "BALANCED"
	OCRAccurate OCRStrength = "ACCURATE"
)

const (
	DefaultDailyNewLimit    = 8
	DefaultDailyReviewLimit = 20
	DefaultAutoAccept       = 0.85

	minDailyNewLimit    = 1
	maxDailyNewLimit    = 40
	minDailyReviewLimit = 1
	maxDailyReviewLimit = 200
	minAutoAccept       = 0.5
	maxAutoAccept       = 0.99
)

// Settings holds the parent-controlled knobs passed explicitly into planner
// and import calls.
type Settings struct {
	DailyNewLimit                 int         `json:"daily_new_limit"`
	DailyReviewLimit              int         `json:"daily_review_limit"`
	CorrectionAutoAcceptThreshold float64     `json:"correction_auto_accept_threshold"`
	StrictMode                    bool        `json:"strict_mode"`
	OCRStrength                   OCRStrength `json:"ocr_strength"`
}

// Patch carries a partial settings update. Nil fields keep the current value.
type Patch struct {
	DailyNewLimit                 *int     `json:"daily_new_limit,omitempty"`
	DailyReviewLimit              *int     `json:"daily_review_limit,omitempty"`
	CorrectionAutoAcceptThreshold *float64 `json:"correction_auto_accept_threshold,omitempty"`
	StrictMode                    *bool    `json:"strict_mode,omitempty"`
	OCRStrength                   *string  `json:"ocr_strength,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		DailyNewLimit:                 DefaultDailyNewLimit,
		DailyReviewLimit:              DefaultDailyReviewLimit,
		CorrectionAutoAcceptThreshold: DefaultAutoAccept,
		OCRStrength:                   OCRBalanced,
	}
}

// FromConfig builds normalized settings from the [policy] config section.
func FromConfig(cfg config.Policy) Settings {
	return Normalize(Settings{
		DailyNewLimit:                 cfg.DailyNewLimit,
		DailyReviewLimit:              cfg.DailyReviewLimit,
		CorrectionAutoAcceptThreshold: cfg.CorrectionAutoAcceptThreshold,
		StrictMode:                    cfg.StrictMode,
		OCRStrength:                   ParseOCRStrength(cfg.OCRStrength),
	})
}

// Normalize clamps every knob into its accepted range.
func Normalize(s Settings) Settings {
	s.DailyNewLimit = clampInt(s.DailyNewLimit, minDailyNewLimit, maxDailyNewLimit)
	s.DailyReviewLimit = clampInt(s.DailyReviewLimit, minDailyReviewLimit, maxDailyReviewLimit)
	s.CorrectionAutoAcceptThreshold = NormalizeThreshold(s.CorrectionAutoAcceptThreshold)
	s.OCRStrength = ParseOCRStrength(string(s.OCRStrength))
	return s
}

// Apply merges patch over current and normalizes the result.
func Apply(current Settings, patch Patch) Settings {
	next := current
	if patch.DailyNewLimit != nil {
		next.DailyNewLimit = *patch.DailyNewLimit
	}
	if patch.DailyReviewLimit != nil {
		next.DailyReviewLimit = *patch.DailyReviewLimit
	}
	if patch.CorrectionAutoAcceptThreshold != nil {
		next.CorrectionAutoAcceptThreshold = *patch.CorrectionAutoAcceptThreshold
	}
	if patch.StrictMode != nil {
		next.StrictMode = *patch.StrictMode
	}
	if patch.OCRStrength != nil {
		next.OCRStrength = OCRStrength(*patch.OCRStrength)
	}
	return Normalize(next)
}

// NormalizeThreshold clamps to [0.5, 0.99] and rounds to two decimals. NaN
// falls back to the default.
func NormalizeThreshold(value float64) float64 {
	if math.IsNaN(value) {
		value = DefaultAutoAccept
	}
	value = math.Max(minAutoAccept, math.Min(value, maxAutoAccept))
	return math.Round(value*100) / 100
}

// ParseOCRStrength maps input to a known strength, defaulting to BALANCED.
func ParseOCRStrength(value string) OCRStrength {
	switch strength := OCRStrength(strings.ToUpper(strings.TrimSpace(value))); strength {
	case OCRFast, OCRBalanced, OCRAccurate:
		return strength
	}
	return OCRBalanced
}

func clampInt(value, low, high int) int {
	return max(low, min(value, high))
}
