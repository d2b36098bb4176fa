package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show today's review and new-word plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCore(func(core coreClient) error {
				plan, err := core.PlanToday(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, plan, func() string {
					var b strings.Builder
					fmt.Fprintf(&b, "Due: %d (showing %d)  New: %d\n", plan.DueTotal, len(plan.ReviewWords), len(plan.NewWords))
					if len(plan.ReviewWords)+len(plan.NewWords) == 0 {
						b.WriteString("Nothing to study today.")
						return b.String()
					}
					b.WriteString(renderPlanTable(plan, shouldColorize(cmd.OutOrStdout())))
					return b.String()
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var (
		req     api.SubmitReviewRequest
		latency int64
	)

	cmd := &cobra.Command{
		Use:   "review WORD_ID",
		Short: "Record an exercise attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			req.WordID = wordID
			if cmd.Flags().Changed("latency-ms") {
				req.LatencyMS = &latency
			}
			return ctx.withCore(func(core coreClient) error {
				outcome, err := core.SubmitReview(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, outcome, func() string {
					line := fmt.Sprintf("Recorded %s for word %d: next review %s (interval %dd, ease %.2f)",
						outcome.Review.Result, wordID, formatTime(outcome.State.NextReviewAt),
						outcome.State.IntervalDays, outcome.State.Ease)
					if outcome.PreviousStatus != outcome.Status {
						line += fmt.Sprintf("\nStatus %s -> %s", outcome.PreviousStatus, outcome.Status)
					}
					return line
				})
			})
		},
	}
	cmd.Flags().StringVar(&req.Result, "result", "", "PASS or FAIL")
	cmd.Flags().StringVar(&req.Mode, "mode", "MEANING", "MEANING, SPELLING, DICTATION, CLOZE, or MATCH")
	cmd.Flags().StringVar(&req.ErrorType, "error-type", "", "Failure classification (SPELLING, CONFUSION, MEANING, PRONUNCIATION, OTHER)")
	cmd.Flags().StringVar(&req.UserAnswer, "answer", "", "Learner answer")
	cmd.Flags().StringVar(&req.CorrectAnswer, "expected", "", "Expected answer")
	cmd.Flags().Int64Var(&latency, "latency-ms", 0, "Response latency in milliseconds")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}
