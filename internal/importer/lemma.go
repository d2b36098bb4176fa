package importer

import (
	"regexp"
	"strings"
)

var (
	wordPattern       = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9'-]{1,31}`)
	vocabPattern      = regexp.MustCompile(`^[a-z][a-z'-]{1,32}$`)
	punctuationCutset = "'\".,;:!?()[]{}<>"
)

var phrasalParticles = map[string]struct{}{
	"up": {}, "down": {}, "in": {}, "out": {}, "off": {}, "on": {},
	"away": {}, "over": {}, "around": {}, "through": {}, "across": {},
}

var headerHintWords = map[string]struct{}{
	"north": {}, "shore": {}, "coaching": {}, "college": {}, "develop": {}, "your": {},
	"english": {}, "skills": {}, "level": {}, "lesson": {}, "page": {}, "spelling": {},
	"list": {}, "word": {}, "words": {}, "definitions": {}, "weekly": {}, "website": {},
	"student": {}, "grouping": {}, "hear": {}, "each": {}, "said": {},
}

var headerLeadWords = map[string]struct{}{
	"lesson": {}, "level": {}, "page": {}, "spelling": {}, "definitions": {},
}

var definitionLinkers = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "to": {}, "in": {}, "of": {}, "for": {},
	"with": {}, "on": {}, "by": {}, "where": {}, "who": {}, "that": {}, "being": {},
}

var noiseWords = map[string]struct{}{
	"north": {}, "shore": {}, "develop": {}, "your": {}, "english": {}, "skills": {},
	"lesson": {}, "level": {}, "page": {}, "spelling": {}, "list": {}, "word": {},
	"words": {}, "definition": {}, "definitions": {}, "weekly": {}, "website": {},
	"student": {}, "grouping": {}, "hear": {}, "here": {}, "each": {}, "also": {},
	"using": {}, "used": {}, "log": {}, "said": {}, "see": {},
	"coach": {}, "coaches": {}, "college": {}, "skill": {},
}

// NormalizeWord strips surrounding punctuation and lowercases word.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.Trim(word, punctuationCutset))
}

// Tokens returns the normalized word tokens of text, ignoring one-letter
// tokens.
func Tokens(text string) []string {
	raw := wordPattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		token = NormalizeWord(token)
		if len(token) < 2 {
			continue
		}
		out = append(out, token)
	}
	return out
}

// SimpleLemma reduces common English inflections: ies->y, -ing, -ed, -es,
// and plural -s, keeping endings such as -ous, -us, -is, and -ss intact.
// Multi-word phrases are lemmatized word by word.
func SimpleLemma(word string) string {
	if strings.Contains(word, " ") {
		parts := strings.Split(word, " ")
		for i, part := range parts {
			parts[i] = SimpleLemma(part)
		}
		return strings.Join(parts, " ")
	}

	n := len(word)
	switch {
	case n > 5 && strings.HasSuffix(word, "ies"):
		return word[:n-3] + "y"
	case n > 4 && strings.HasSuffix(word, "ing"):
		root := undouble(word[:n-3])
		if strings.HasSuffix(root, "v") {
			root += "e"
		}
		return root
	case n > 3 && strings.HasSuffix(word, "ed"):
		return undouble(word[:n-2])
	case n > 3 && strings.HasSuffix(word, "es") && !strings.HasSuffix(word, "ses") && !strings.HasSuffix(word, "xes"):
		return word[:n-2]
	case n > 3 && (strings.HasSuffix(word, "ous") || strings.HasSuffix(word, "us") ||
		strings.HasSuffix(word, "is") || strings.HasSuffix(word, "ss")):
		return word
	case n > 3 && strings.HasSuffix(word, "s"):
		return word[:n-1]
	}
	return word
}

func undouble(root string) string {
	if n := len(root); n > 2 && root[n-1] == root[n-2] {
		return root[:n-1]
	}
	return root
}

// ExpandPhrasal appends "<token> <particle>" after every token followed by a
// phrasal particle, so "give up" yields give, give up, up.
func ExpandPhrasal(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i, token := range tokens {
		out = append(out, token)
		if i+1 < len(tokens) {
			if _, ok := phrasalParticles[tokens[i+1]]; ok {
				out = append(out, token+" "+tokens[i+1])
			}
		}
	}
	return out
}

func isImportableVocab(token string) bool {
	if !vocabPattern.MatchString(token) {
		return false
	}
	_, noisy := noiseWords[token]
	return !noisy
}

// WordListCandidates extracts vocabulary from document text laid out as a
// word list: headers are skipped, definition rows contribute their head word,
// and rows of up to three importable tokens contribute each token. When no
// line qualifies, every importable lemma of the text is used instead.
func WordListCandidates(text string, limit int) []string {
	collected := make([]string, 0, 64)
	seen := make(map[string]struct{})
	add := func(lemma string) bool {
		if !isImportableVocab(lemma) {
			return false
		}
		if _, ok := seen[lemma]; ok {
			return false
		}
		seen[lemma] = struct{}{}
		collected = append(collected, lemma)
		return limit > 0 && len(collected) >= limit
	}

	for _, line := range strings.Split(SanitizeUntrusted(text), "\n") {
		tokens := Tokens(line)
		if len(tokens) == 0 || looksLikeHeader(tokens) {
			continue
		}
		for _, token := range lineCandidates(tokens) {
			if add(SimpleLemma(token)) {
				return collected
			}
		}
	}
	if len(collected) > 0 {
		return collected
	}

	for _, token := range Tokens(SanitizeUntrusted(text)) {
		if add(SimpleLemma(token)) {
			break
		}
	}
	return collected
}

func lineCandidates(tokens []string) []string {
	if len(tokens) == 1 {
		return tokens
	}
	if looksLikeDefinitionRow(tokens) {
		return tokens[:1]
	}
	if len(tokens) <= 3 {
		for _, token := range tokens {
			if !isImportableVocab(token) {
				return nil
			}
		}
		return tokens
	}
	return nil
}

func looksLikeDefinitionRow(tokens []string) bool {
	if len(tokens) < 2 {
		return false
	}
	window := tokens[1:min(len(tokens), 5)]
	for _, token := range window {
		if _, ok := definitionLinkers[token]; ok {
			return true
		}
	}
	return false
}

func looksLikeHeader(tokens []string) bool {
	if len(tokens) < 2 {
		return false
	}
	hits := 0
	for _, token := range tokens {
		if _, ok := headerHintWords[token]; ok {
			hits++
		}
	}
	if hits >= 2 {
		return true
	}
	_, lead := headerLeadWords[tokens[0]]
	return lead
}
