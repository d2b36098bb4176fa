package scoring

import (
	"bufio"
	_ "embed"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"wordcore/internal/textutil"
)

//go:embed words.txt
var builtinWords string

// Suggestion is the outcome of scoring one candidate.
type Suggestion struct {
	Candidate         string  `json:"word_candidate"`
	Correction        string  `json:"suggested_correction"`
	Confidence        float64 `json:"confidence"`
	NeedsConfirmation bool    `json:"needs_confirmation"`
}

// Scorer rates a candidate and proposes its canonical form.
type Scorer interface {
	Score(candidate string) Suggestion
}

const (
	baseConfidence      = 0.96
	exactConfidence     = 0.99
	emptyConfidence     = 0.5
	symbolConfidence    = 0.7
	oneEditConfidence   = 0.84
	twoEditConfidence   = 0.76
	shortWordConfidence = 0.55
	snappedFloor        = 0.72
	snappedCeiling      = 0.84
	maxSnapDistance     = 2
)

var confusionReplacer = strings.NewReplacer(
	"0", "o", "1", "l", "2", "z", "3", "e", "4", "a",
	"5", "s", "6", "g", "7", "t", "8", "b", "9", "g",
	"$", "s", "@", "a", "!", "i",
)

var glyphMerges = []struct {
	wrong   string
	right   string
	penalty float64
}{
	{"rn", "m", 0.14},
	{"vv", "w", 0.16},
	{"cl", "d", 0.18},
}

// DictionaryScorer scores candidates against a known-good word list.
type DictionaryScorer struct {
	known  map[string]struct{}
	sorted []string
}

// NewDictionaryScorer builds a scorer over the built-in list plus extra words.
func NewDictionaryScorer(extra ...string) *DictionaryScorer {
	s := &DictionaryScorer{known: make(map[string]struct{})}
	for _, line := range strings.Split(builtinWords, "\n") {
		s.add(line)
	}
	for _, word := range extra {
		s.add(word)
	}
	s.sorted = make([]string, 0, len(s.known))
	for word := range s.known {
		s.sorted = append(s.sorted, word)
	}
	slices.Sort(s.sorted)
	return s
}

// LoadDictionary reads a newline-separated word list. Blank lines and lines
// starting with '#' are ignored.
func LoadDictionary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return words, nil
}

func (s *DictionaryScorer) add(word string) {
	key := textutil.Fold(word)
	if key == "" {
		return
	}
	s.known[key] = struct{}{}
}

// Known reports whether word is in the dictionary.
func (s *DictionaryScorer) Known(word string) bool {
	_, ok := s.known[textutil.Fold(word)]
	return ok
}

// Size returns the number of dictionary entries.
func (s *DictionaryScorer) Size() int {
	return len(s.sorted)
}

// Score implements Scorer.
func (s *DictionaryScorer) Score(candidate string) Suggestion {
	original := strings.ToLower(strings.TrimSpace(candidate))
	if original == "" {
		return Suggestion{Candidate: original, Correction: original, Confidence: emptyConfidence, NeedsConfirmation: true}
	}

	current := original
	confidence := baseConfidence
	needsConfirmation := false
	changed := false

	if strings.ContainsAny(current, "0123456789$@!") {
		if repaired := confusionReplacer.Replace(current); repaired != current {
			current = repaired
			confidence = math.Min(confidence, symbolConfidence)
			needsConfirmation = true
			changed = true
		}
	}

	for _, merge := range glyphMerges {
		if strings.Contains(current, merge.wrong) {
			current = strings.ReplaceAll(current, merge.wrong, merge.right)
			confidence = math.Min(confidence, 1-merge.penalty)
			needsConfirmation = true
			changed = true
		}
	}

	if _, ok := s.known[current]; !ok {
		if nearest, distance := s.closest(current); nearest != "" && distance <= maxSnapDistance {
			current = nearest
			if distance == 1 {
				confidence = math.Min(confidence, oneEditConfidence)
			} else {
				confidence = math.Min(confidence, twoEditConfidence)
			}
			needsConfirmation = true
			changed = true
		}
	}

	if len([]rune(current)) <= 2 {
		confidence = math.Min(confidence, shortWordConfidence)
		needsConfirmation = true
	}

	_, known := s.known[current]
	if known && current != original {
		confidence = math.Min(math.Max(confidence, snappedFloor), snappedCeiling)
		needsConfirmation = true
	}
	if known && current == original {
		confidence = exactConfidence
		needsConfirmation = false
	}
	if changed && current != original && confidence < 0.9 {
		needsConfirmation = true
	}

	return Suggestion{
		Candidate:         original,
		Correction:        current,
		Confidence:        math.Round(confidence*100) / 100,
		NeedsConfirmation: needsConfirmation,
	}
}

// closest returns the nearest known word within maxSnapDistance edits,
// scanning in lexical order and stopping at the first single-edit match.
func (s *DictionaryScorer) closest(token string) (string, int) {
	best := ""
	bestDistance := maxSnapDistance + 1
	tokenLen := len([]rune(token))
	for _, known := range s.sorted {
		diff := len([]rune(known)) - tokenLen
		if diff > maxSnapDistance || -diff > maxSnapDistance {
			continue
		}
		distance := textutil.Levenshtein(token, known)
		if distance == 0 {
			return known, 0
		}
		if distance < bestDistance {
			best, bestDistance = known, distance
			if distance == 1 {
				break
			}
		}
	}
	return best, bestDistance
}
