package policy_test

import (
	"math"
	"testing"

	"wordcore/internal/config"
	"wordcore/internal/policy"
)

func TestNormalizeClampsRanges(t *testing.T) {
	cases := []struct {
		name string
		in   policy.Settings
		want policy.Settings
	}{
		{
			name: "defaults unchanged",
			in:   policy.Defaults(),
			want: policy.Defaults(),
		},
		{
			name: "upper bounds",
			in:   policy.Settings{DailyNewLimit: 99, DailyReviewLimit: 500, CorrectionAutoAcceptThreshold: 1.5, OCRStrength: "fast"},
			want: policy.Settings{DailyNewLimit: 40, DailyReviewLimit: 200, CorrectionAutoAcceptThreshold: 0.99, OCRStrength: policy.OCRFast},
		},
		{
			name: "lower bounds",
			in:   policy.Settings{DailyNewLimit: 0, DailyReviewLimit: -3, CorrectionAutoAcceptThreshold: 0.1, OCRStrength: "turbo"},
			want: policy.Settings{DailyNewLimit: 1, DailyReviewLimit: 1, CorrectionAutoAcceptThreshold: 0.5, OCRStrength: policy.OCRBalanced},
		},
		{
			name: "threshold rounding",
			in:   policy.Settings{DailyNewLimit: 5, DailyReviewLimit: 10, CorrectionAutoAcceptThreshold: 0.876, StrictMode: true, OCRStrength: "ACCURATE"},
			want: policy.Settings{DailyNewLimit: 5, DailyReviewLimit: 10, CorrectionAutoAcceptThreshold: 0.88, StrictMode: true, OCRStrength: policy.OCRAccurate},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestApplyKeepsUnsetFields(t *testing.T) {
	current := policy.Defaults()
	newLimit := 12
	strict := true
	next := policy.Apply(current, policy.Patch{DailyNewLimit: &newLimit, StrictMode: &strict})
	if next.DailyNewLimit != 12 || !next.StrictMode {
		t.Fatalf("patch not applied: %+v", next)
	}
	if next.DailyReviewLimit != current.DailyReviewLimit || next.CorrectionAutoAcceptThreshold != current.CorrectionAutoAcceptThreshold {
		t.Fatalf("unset fields changed: %+v", next)
	}
}

func TestNormalizeThresholdNaN(t *testing.T) {
	if got := policy.NormalizeThreshold(math.NaN()); got != policy.DefaultAutoAccept {
		t.Fatalf("NaN threshold = %v", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Policy.DailyNewLimit = 6
	cfg.Policy.OCRStrength = "accurate"
	settings := policy.FromConfig(cfg.Policy)
	if settings.DailyNewLimit != 6 || settings.OCRStrength != policy.OCRAccurate {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}
