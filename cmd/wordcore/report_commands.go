package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/config"
	"wordcore/internal/report"
	"wordcore/internal/textutil"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Progress reports and exports",
	}
	reportCmd.AddCommand(newReportWeeklyCommand(ctx))
	reportCmd.AddCommand(newReportMistakesCommand(ctx))
	reportCmd.AddCommand(newReportExportCommand(ctx))
	return reportCmd
}

func newReportWeeklyCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Summarize the last seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				weekly, err := svc.WeeklyReport(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, weekly, func() string { return renderWeekly(weekly) })
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderWeekly(w *report.Weekly) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week %s to %s\n", w.WindowStart.Local().Format(dateLayout), w.GeneratedAt.Local().Format(dateLayout))
	rows := [][]string{
		{"Reviews", strconv.Itoa(w.Reviews)},
		{"Passed", strconv.Itoa(w.Passes)},
		{"Failed", strconv.Itoa(w.Fails)},
		{"Accuracy", formatPercent(w.Accuracy)},
		{"New words", strconv.Itoa(w.NewWords)},
		{"Mastered", strconv.Itoa(w.MasteredWords)},
		{"Study days", strconv.Itoa(w.StudyDays)},
	}
	b.WriteString(renderTable([]column{{"Metric", alignLeft}, {"Value", alignRight}}, rows, ""))
	fmt.Fprintf(&b, "\nNext week: %d new words per day (%s)\n", w.Suggestion.DailyNewLimit, w.Suggestion.Split)
	fmt.Fprintf(&b, "Focus: %s", joinOrDash(w.FocusWords))
	return b.String()
}

func newReportMistakesCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "mistakes",
		Short: "List the most failed words",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				mistakes, err := svc.Mistakes(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, mistakes, func() string {
					if len(mistakes) == 0 {
						return "No mistakes recorded."
					}
					rows := make([][]string, 0, len(mistakes))
					for _, m := range mistakes {
						rows = append(rows, []string{
							m.Lemma,
							strconv.Itoa(m.FailCount),
							strconv.Itoa(m.SpellingErrors),
							strconv.Itoa(m.ConfusionErrors),
							strconv.Itoa(m.MeaningErrors),
							strconv.Itoa(m.PronunciationErrors),
						})
					}
					return renderTable([]column{{"Lemma", alignLeft}, {"Fails", alignRight}, {"Spelling", alignRight}, {"Confusion", alignRight}, {"Meaning", alignRight}, {"Pronunciation", alignRight}}, rows, "")
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReportExportCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every word as CSV (or JSON with --json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				rows, err := svc.Export(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, rows)
				}
				if output == "-" {
					return writeExportCSV(cmd.OutOrStdout(), rows)
				}
				target := output
				if target == "" {
					user, err := svc.Store().GetUser(cmd.Context(), userID)
					if err != nil {
						return err
					}
					target = defaultExportName(user.DisplayName, userID, svc.Store().Now())
				} else if target, err = config.ExpandPath(target); err != nil {
					return err
				}
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := writeExportCSV(file, rows); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", len(rows), target)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (- for stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// defaultExportName names the export after the learner, falling back to the
// id when the display name has nothing usable in a file name.
func defaultExportName(displayName string, userID int64, now time.Time) string {
	name := strings.ToLower(strings.Join(strings.Fields(textutil.SanitizeFileName(displayName)), "-"))
	if strings.Trim(name, ".-") == "" {
		name = "user" + strconv.FormatInt(userID, 10)
	}
	return fmt.Sprintf("wordcore-%s-%s.csv", name, now.Format(dateLayout))
}

func writeExportCSV(w io.Writer, rows []report.ExportEntry) error {
	writer := csv.NewWriter(w)
	header := []string{"id", "lemma", "surface", "status", "tags", "meaning_zh", "meaning_en",
		"next_review_at", "interval_days", "streak", "lapses", "total_reviews", "pass_reviews", "accuracy"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		next := ""
		if row.NextReviewAt != nil {
			next = row.NextReviewAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Lemma,
			row.Surface,
			string(row.Status),
			strings.Join(row.Tags, ";"),
			strings.Join(row.MeaningZH, ";"),
			strings.Join(row.MeaningEN, ";"),
			next,
			strconv.Itoa(row.IntervalDays),
			strconv.Itoa(row.Streak),
			strconv.Itoa(row.Lapses),
			strconv.Itoa(row.TotalReviews),
			strconv.Itoa(row.PassReviews),
			strconv.FormatFloat(row.Accuracy, 'f', 3, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
