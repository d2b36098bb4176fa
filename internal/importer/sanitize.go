package importer

import (
	"regexp"
	"strings"
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|system)\s+instructions`),
	regexp.MustCompile(`(?i)reveal\s+(the\s+)?(secret|token|api[_ -]?key|password)`),
	regexp.MustCompile(`(?i)run\s+(shell|terminal|bash|zsh|powershell)\s+command`),
	regexp.MustCompile(`(?i)install\s+.*skill`),
}

// SanitizeUntrusted drops blank lines and lines that look like instructions
// aimed at an automated agent, returning the remaining trimmed lines.
func SanitizeUntrusted(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || IsPromptInjection(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// IsPromptInjection reports whether text matches a known injection pattern.
func IsPromptInjection(text string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
