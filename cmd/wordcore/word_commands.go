package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/store"
)

func newWordCommand(ctx *commandContext) *cobra.Command {
	wordCmd := &cobra.Command{
		Use:   "word",
		Short: "Inspect and edit a learner's words",
	}
	wordCmd.AddCommand(newWordListCommand(ctx))
	wordCmd.AddCommand(newWordShowCommand(ctx))
	wordCmd.AddCommand(newWordStatusCommand(ctx))
	wordCmd.AddCommand(newWordCorrectCommand(ctx))
	wordCmd.AddCommand(newWordDeleteCommand(ctx))
	wordCmd.AddCommand(newWordEditCommand(ctx))
	wordCmd.AddCommand(newWordCardCommand(ctx))
	return wordCmd
}

func newWordListCommand(ctx *commandContext) *cobra.Command {
	var (
		userID   int64
		statuses []string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List words with their schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.WordFilter{Limit: limit, Offset: offset}
			for _, value := range statuses {
				status, ok := store.ParseStatus(value)
				if !ok {
					return fmt.Errorf("invalid status %q", value)
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			return ctx.withService(func(svc *api.Service) error {
				words, err := svc.ListWords(cmd.Context(), userID, filter)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, words, func() string {
					if len(words) == 0 {
						return "No words."
					}
					colorize := shouldColorize(cmd.OutOrStdout())
					rows := make([][]string, 0, len(words))
					for _, w := range words {
						next, interval, streak := "-", "-", "-"
						if w.SRS != nil {
							next = formatTime(w.SRS.NextReviewAt)
							interval = strconv.Itoa(w.SRS.IntervalDays) + "d"
							streak = strconv.Itoa(w.SRS.Streak)
						}
						rows = append(rows, []string{
							strconv.FormatInt(w.ID, 10),
							w.Lemma,
							statusCell(w.Status, colorize),
							next,
							interval,
							streak,
							joinOrDash(w.Tags),
						})
					}
					return renderTable([]column{{"ID", alignRight}, {"Lemma", alignLeft}, {"Status", alignLeft}, {"Next Review", alignLeft}, {"Interval", alignRight}, {"Streak", alignRight}, {"Tags", alignLeft}}, rows, "")
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum words to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Words to skip")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newWordShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show WORD_ID",
		Short: "Show a word with reviews and corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				detail, err := svc.GetWord(cmd.Context(), wordID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, detail, func() string { return renderWordDetail(detail) })
			})
		},
	}
}

func renderWordDetail(detail *api.WordDetail) string {
	w := detail.Word
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)  status=%s  surface=%s\n", w.Lemma, w.ID, w.Status, w.Surface)
	if w.Phonetic != "" || w.POS != "" {
		fmt.Fprintf(&b, "  %s %s\n", w.Phonetic, w.POS)
	}
	fmt.Fprintf(&b, "  meaning (zh): %s\n", joinOrDash(w.MeaningZH))
	fmt.Fprintf(&b, "  meaning (en): %s\n", joinOrDash(w.MeaningEN))
	fmt.Fprintf(&b, "  tags: %s\n", joinOrDash(w.Tags))
	if w.SRS != nil {
		fmt.Fprintf(&b, "  next review %s  interval %dd  ease %.2f  streak %d  lapses %d\n",
			formatTime(w.SRS.NextReviewAt), w.SRS.IntervalDays, w.SRS.Ease, w.SRS.Streak, w.SRS.Lapses)
	}
	if len(detail.Reviews) > 0 {
		rows := make([][]string, 0, len(detail.Reviews))
		for _, r := range detail.Reviews {
			rows = append(rows, []string{formatTime(&r.ReviewAt), string(r.Result), string(r.Mode), string(r.ErrorType)})
		}
		b.WriteString(renderTable([]column{{"Reviewed", alignLeft}, {"Result", alignLeft}, {"Mode", alignLeft}, {"Error", alignLeft}}, rows, ""))
		b.WriteString("\n")
	}
	for _, c := range detail.Corrections {
		fmt.Fprintf(&b, "  corrected %s -> %s by %s on %s", c.OldLemma, c.NewLemma, c.CorrectedByRole, formatTime(&c.CorrectedAt))
		if c.Reason != "" {
			fmt.Fprintf(&b, " (%s)", c.Reason)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func newWordStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status WORD_ID STATUS",
		Short: "Set a word's status (NEW, LEARNING, REVIEWING, MASTERED, SUSPENDED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			return ctx.withCore(func(core coreClient) error {
				word, err := core.UpdateWordStatus(cmd.Context(), wordID, args[1])
				if err != nil {
					return err
				}
				return ctx.emit(cmd, word, func() string {
					return fmt.Sprintf("%s is now %s", word.Lemma, word.Status)
				})
			})
		},
	}
}

func newWordCorrectCommand(ctx *commandContext) *cobra.Command {
	var req api.CorrectWordRequest
	var role string

	cmd := &cobra.Command{
		Use:   "correct WORD_ID NEW_LEMMA",
		Short: "Fix a word's lemma and record the correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			req.WordID = wordID
			req.NewLemma = args[1]
			req.Role = store.Role(strings.ToUpper(strings.TrimSpace(role)))
			return ctx.withCore(func(core coreClient) error {
				resp, err := core.CorrectWord(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, resp, func() string {
					return fmt.Sprintf("Corrected %s -> %s", resp.Correction.OldLemma, resp.Correction.NewLemma)
				})
			})
		},
	}
	cmd.Flags().StringVar(&req.NewSurface, "surface", "", "Surface form (defaults to the lemma)")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Why the word was corrected")
	cmd.Flags().StringVar(&role, "role", string(store.RoleParent), "Who made the correction (PARENT or CHILD)")
	return cmd
}

func newWordDeleteCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete WORD_ID",
		Short: "Delete a word with its reviews, schedule, cards, and corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			return ctx.withCore(func(core coreClient) error {
				word, err := core.DeleteWord(cmd.Context(), userID, wordID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, word, func() string {
					return fmt.Sprintf("Deleted %s (%d)", word.Lemma, word.ID)
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id owning the word")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newCorrectionsCommand(ctx *commandContext) *cobra.Command {
	var req api.ListCorrectionsRequest

	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "List lemma corrections by learner or word",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCore(func(core coreClient) error {
				rows, err := core.ListCorrections(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, rows, func() string {
					if len(rows) == 0 {
						return "No corrections."
					}
					table := make([][]string, 0, len(rows))
					for _, c := range rows {
						table = append(table, []string{
							formatTime(&c.CorrectedAt),
							strconv.FormatInt(c.WordID, 10),
							c.OldLemma,
							c.NewLemma,
							string(c.CorrectedByRole),
							c.Reason,
						})
					}
					return renderTable([]column{{"When", alignLeft}, {"Word", alignRight}, {"From", alignLeft}, {"To", alignLeft}, {"By", alignLeft}, {"Reason", alignLeft}}, table, "")
				})
			})
		},
	}
	cmd.Flags().Int64Var(&req.UserID, "user", 0, "Learner id")
	cmd.Flags().Int64Var(&req.WordID, "word", 0, "Word id")
	cmd.Flags().IntVar(&req.Limit, "limit", 50, "Maximum rows for --user")
	return cmd
}
