package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/store"
)

func newWordEditCommand(ctx *commandContext) *cobra.Command {
	var (
		phonetic  string
		pos       string
		meaningZH []string
		meaningEN []string
		examples  []string
		tags      []string
	)

	cmd := &cobra.Command{
		Use:   "edit WORD_ID",
		Short: "Set phonetic, part of speech, meanings, examples, or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			var fields store.LearningFields
			changed := false
			if flags.Changed("phonetic") {
				fields.Phonetic = &phonetic
				changed = true
			}
			if flags.Changed("pos") {
				fields.POS = &pos
				changed = true
			}
			for _, entry := range []struct {
				flag   string
				values []string
				target *[]string
			}{
				{"meaning-zh", meaningZH, &fields.MeaningZH},
				{"meaning-en", meaningEN, &fields.MeaningEN},
				{"example", examples, &fields.Examples},
				{"tag", tags, &fields.Tags},
			} {
				if flags.Changed(entry.flag) {
					*entry.target = append([]string{}, entry.values...)
					changed = true
				}
			}
			if !changed {
				return errors.New("nothing to update; pass at least one field flag")
			}
			return ctx.withService(func(svc *api.Service) error {
				word, err := svc.UpdateLearningFields(cmd.Context(), wordID, fields)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, word, func() string {
					return fmt.Sprintf("Updated %s: zh=%s en=%s examples=%d tags=%s",
						word.Lemma, joinOrDash(word.MeaningZH), joinOrDash(word.MeaningEN), len(word.Examples), joinOrDash(word.Tags))
				})
			})
		},
	}
	cmd.Flags().StringVar(&phonetic, "phonetic", "", "Phonetic transcription")
	cmd.Flags().StringVar(&pos, "pos", "", "Part of speech")
	cmd.Flags().StringArrayVar(&meaningZH, "meaning-zh", nil, "Chinese meaning (repeatable; replaces the list)")
	cmd.Flags().StringArrayVar(&meaningEN, "meaning-en", nil, "English meaning (repeatable; replaces the list)")
	cmd.Flags().StringArrayVar(&examples, "example", nil, "Example sentence (repeatable; replaces the list)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable; replaces the list)")
	return cmd
}

func newWordCardCommand(ctx *commandContext) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Track generated study cards",
	}
	cardCmd.AddCommand(newWordCardAddCommand(ctx))
	cardCmd.AddCommand(newWordCardShowCommand(ctx))
	return cardCmd
}

func newWordCardAddCommand(ctx *commandContext) *cobra.Command {
	var card store.Card

	cmd := &cobra.Command{
		Use:   "add WORD_ID",
		Short: "Record a generated card file as the next version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			card.WordID = wordID
			return ctx.withService(func(svc *api.Service) error {
				recorded, err := svc.RecordCard(cmd.Context(), card)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, recorded, func() string {
					return fmt.Sprintf("Recorded %s card v%d for word %d", recorded.Type, recorded.Version, recorded.WordID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&card.Type, "type", "", "Card type, for example FRONT or AUDIO")
	cmd.Flags().StringVar(&card.Path, "path", "", "Location of the generated file")
	cmd.Flags().StringVar(&card.ContentHash, "hash", "", "Content hash of the file")
	cmd.Flags().StringVar(&card.ModelUsed, "model", "", "Generator that produced the card")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newWordCardShowCommand(ctx *commandContext) *cobra.Command {
	var cardType string

	cmd := &cobra.Command{
		Use:   "show WORD_ID",
		Short: "Show the newest card of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordID, err := parseID(args[0], "word id")
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				card, err := svc.LatestCard(cmd.Context(), wordID, cardType)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, card, func() string {
					var b strings.Builder
					fmt.Fprintf(&b, "%s v%d  %s", card.Type, card.Version, card.Path)
					if card.ModelUsed != "" {
						fmt.Fprintf(&b, "  model=%s", card.ModelUsed)
					}
					fmt.Fprintf(&b, "  created %s", formatTime(&card.CreatedAt))
					return b.String()
				})
			})
		},
	}
	cmd.Flags().StringVar(&cardType, "type", "", "Card type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
