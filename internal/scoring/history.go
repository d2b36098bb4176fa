package scoring

import (
	"math"

	"wordcore/internal/textutil"
)

// CorrectionScorer suggests lemmas the learner has corrected before. A
// candidate matching a previously corrected lemma gets the corrected form,
// confidence capped at 1-penalty, and always needs confirmation. Every
// other candidate falls through to the wrapped Scorer.
type CorrectionScorer struct {
	base     Scorer
	patterns map[string]string
	penalty  float64
}

// NewCorrectionScorer wraps base with patterns mapping old lemma to new lemma.
func NewCorrectionScorer(base Scorer, patterns map[string]string, penalty float64) *CorrectionScorer {
	folded := make(map[string]string, len(patterns))
	for oldLemma, newLemma := range patterns {
		key := textutil.Fold(oldLemma)
		if key == "" || textutil.Fold(newLemma) == key {
			continue
		}
		folded[key] = newLemma
	}
	return &CorrectionScorer{base: base, patterns: folded, penalty: math.Min(math.Max(penalty, 0), 1)}
}

// Score implements Scorer.
func (s *CorrectionScorer) Score(candidate string) Suggestion {
	result := s.base.Score(candidate)
	corrected, ok := s.patterns[textutil.Fold(candidate)]
	if !ok {
		return result
	}
	result.Correction = corrected
	result.Confidence = math.Round(math.Min(result.Confidence, 1-s.penalty)*100) / 100
	result.NeedsConfirmation = true
	return result
}
