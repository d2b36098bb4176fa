package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/policy"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change a child's learning settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				view, err := svc.GetSettings(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, view, func() string { return renderSettings(view) })
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Child id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		userID    int64
		newLimit  int
		review    int
		threshold float64
		strict    bool
		ocr       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; values outside the allowed range are clamped",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch policy.Patch
			flags := cmd.Flags()
			if flags.Changed("daily-new") {
				patch.DailyNewLimit = &newLimit
			}
			if flags.Changed("daily-review") {
				patch.DailyReviewLimit = &review
			}
			if flags.Changed("auto-accept") {
				patch.CorrectionAutoAcceptThreshold = &threshold
			}
			if flags.Changed("strict") {
				patch.StrictMode = &strict
			}
			if flags.Changed("ocr") {
				patch.OCRStrength = &ocr
			}
			return ctx.withService(func(svc *api.Service) error {
				view, err := svc.UpdateSettings(cmd.Context(), userID, patch)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, view, func() string { return renderSettings(view) })
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Child id")
	cmd.Flags().IntVar(&newLimit, "daily-new", 0, "New words per day (1-40)")
	cmd.Flags().IntVar(&review, "daily-review", 0, "Reviews per day (1-200)")
	cmd.Flags().Float64Var(&threshold, "auto-accept", 0, "Import auto-accept confidence (0.5-0.99)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Require confirmation for any changed lemma")
	cmd.Flags().StringVar(&ocr, "ocr", "", "OCR strength (FAST, BALANCED, ACCURATE)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderSettings(view *api.SettingsView) string {
	var b strings.Builder
	source := "defaults"
	if view.Stored {
		source = "stored"
	}
	fmt.Fprintf(&b, "Settings for user %d (%s)\n", view.UserID, source)
	s := view.Settings
	rows := [][]string{
		{"Daily new limit", fmt.Sprintf("%d", s.DailyNewLimit)},
		{"Daily review limit", fmt.Sprintf("%d", s.DailyReviewLimit)},
		{"Auto-accept threshold", fmt.Sprintf("%.2f", s.CorrectionAutoAcceptThreshold)},
		{"Strict mode", yesNo(s.StrictMode)},
		{"OCR strength", string(s.OCRStrength)},
	}
	b.WriteString(renderTable([]column{{"Setting", alignLeft}, {"Value", alignRight}}, rows, ""))
	return b.String()
}
