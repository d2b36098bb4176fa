package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wordcore/internal/textutil"
)

const dateLayout = "2006-01-02"

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}

func formatTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04")
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func parseID(value, label string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", label, value)
	}
	return id, nil
}
