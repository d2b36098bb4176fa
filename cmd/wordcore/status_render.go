package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"wordcore/internal/preflight"
	"wordcore/internal/store"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

var statusKinds = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats "label: [KIND] message" for doctor and status.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := "[" + statusKinds[kind].label + "]"
	if message != "" {
		tag += " " + message
	}
	return paint(fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", tag), kind, colorize)
}

// wordStatusKind maps a learning status onto the display palette: mastered
// words read as done, suspended ones as attention.
func wordStatusKind(status store.WordStatus) statusKind {
	switch status {
	case store.StatusMastered:
		return statusOK
	case store.StatusLearning:
		return statusWarn
	case store.StatusSuspended:
		return statusError
	default:
		return statusInfo
	}
}

func statusCell(status store.WordStatus, colorize bool) string {
	return paint(string(status), wordStatusKind(status), colorize)
}

func checkKind(result preflight.Result) statusKind {
	if result.Passed {
		return statusOK
	}
	return statusError
}

// renderCheckSummary closes a doctor report.
func renderCheckSummary(results []preflight.Result, colorize bool) string {
	failed := len(preflight.Failed(results))
	if failed == 0 {
		return paint(fmt.Sprintf("%sall %d checks passed", statusIndent, len(results)), statusOK, colorize)
	}
	return paint(fmt.Sprintf("%s%d of %d checks failed", statusIndent, failed, len(results)), statusError, colorize)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	return []string{paint(line, statusInfo, colorize), paint(rule, statusInfo, colorize)}
}

func paint(value string, kind statusKind, colorize bool) string {
	if !colorize {
		return value
	}
	return statusKinds[kind].color + value + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
