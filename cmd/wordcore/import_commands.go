package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/config"
	"wordcore/internal/importer"
	"wordcore/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Stage and commit word imports",
	}
	importCmd.AddCommand(newImportPreviewCommand(ctx))
	importCmd.AddCommand(newImportShowCommand(ctx))
	importCmd.AddCommand(newImportCommitCommand(ctx))
	importCmd.AddCommand(newImportListCommand(ctx))
	return importCmd
}

func newImportPreviewCommand(ctx *commandContext) *cobra.Command {
	var (
		req      api.PreviewImportRequest
		role     string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "preview [WORD...]",
		Short: "Stage candidates from arguments, --text, or --file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Candidates = args
			if role != "" {
				parsed, ok := store.ParseRole(role)
				if !ok {
					return fmt.Errorf("invalid role %q", role)
				}
				req.ImporterRole = parsed
			}
			if filePath != "" {
				path, err := config.ExpandPath(filePath)
				if err != nil {
					return err
				}
				payload, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read import file: %w", err)
				}
				req.FileName = filepath.Base(path)
				req.Payload = payload
				if req.SourcePath == "" {
					req.SourcePath = path
				}
			}
			return ctx.withCore(func(core coreClient) error {
				preview, err := core.PreviewImport(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, preview, func() string { return renderPreview(preview) })
			})
		},
	}
	cmd.Flags().Int64Var(&req.UserID, "user", 0, "Learner id")
	cmd.Flags().StringVar(&req.Text, "text", "", "Free text to tokenize")
	cmd.Flags().StringVar(&filePath, "file", "", "Text, CSV, or HTML file to import")
	cmd.Flags().StringVar(&req.SourceName, "source-name", "", "Label for the batch")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "Tag applied to committed words (repeatable)")
	cmd.Flags().StringVar(&req.Note, "note", "", "Free-form batch note")
	cmd.Flags().StringVar(&role, "role", "", "Importer role (PARENT or CHILD)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderPreview(preview *importer.Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %d staged from %s (%s)\n", preview.Batch.ID, preview.Batch.SourceName, preview.Batch.SourceType)
	if preview.Truncated > 0 {
		fmt.Fprintf(&b, "%d candidates dropped over the limit\n", preview.Truncated)
	}
	b.WriteString(renderImportTable(previewRows(preview.Items), false))
	fmt.Fprintf(&b, "\nCommit with `wordcore import commit %d --auto` or choose items with --accept.", preview.Batch.ID)
	return b.String()
}

func newImportShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show BATCH_ID",
		Short: "Show a batch and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseID(args[0], "batch id")
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				batch, err := svc.GetImport(cmd.Context(), batchID)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, batch, func() string { return renderBatch(batch) })
			})
		},
	}
}

func renderBatch(batch *importer.Batch) string {
	var b strings.Builder
	imp := batch.Import
	fmt.Fprintf(&b, "Batch %d  %s  source=%s (%s)  by=%s  tags=%s\n",
		imp.ID, imp.Status, imp.SourceName, imp.SourceType, imp.ImporterRole, joinOrDash(imp.Tags))
	b.WriteString(renderImportTable(batchRows(batch.Items), true))
	return b.String()
}

func newImportListCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent batches for a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				batches, err := svc.ListImports(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, batches, func() string {
					if len(batches) == 0 {
						return "No imports."
					}
					rows := make([][]string, 0, len(batches))
					for _, imp := range batches {
						rows = append(rows, []string{
							strconv.FormatInt(imp.ID, 10),
							string(imp.Status),
							imp.SourceType,
							imp.SourceName,
							formatTime(&imp.CreatedAt),
						})
					}
					return renderTable([]column{{"Batch", alignRight}, {"Status", alignLeft}, {"Type", alignLeft}, {"Source", alignLeft}, {"Created", alignLeft}}, rows, "")
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Learner id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum batches to show")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newImportCommitCommand(ctx *commandContext) *cobra.Command {
	var (
		accept []int64
		lemmas []string
		all    bool
		auto   bool
	)

	cmd := &cobra.Command{
		Use:   "commit BATCH_ID",
		Short: "Create words from accepted items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseID(args[0], "batch id")
			if err != nil {
				return err
			}
			finals, err := parseFinalLemmas(lemmas)
			if err != nil {
				return err
			}
			req := api.CommitImportRequest{BatchID: batchID, AcceptedIDs: accept, FinalLemmas: finals}
			if all || auto {
				ids, err := ctx.selectItems(cmd.Context(), batchID, auto)
				if err != nil {
					return err
				}
				req.AcceptedIDs = mergeIDs(req.AcceptedIDs, ids)
			}
			return ctx.withCore(func(core coreClient) error {
				result, err := core.CommitImport(cmd.Context(), req)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, result, func() string { return renderCommit(result) })
			})
		},
	}
	cmd.Flags().Int64SliceVar(&accept, "accept", nil, "Item ids to accept (comma separated or repeated)")
	cmd.Flags().StringArrayVar(&lemmas, "lemma", nil, "Override the lemma for an item as ITEM=LEMMA (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Accept every item in the batch")
	cmd.Flags().BoolVar(&auto, "auto", false, "Accept items that do not need confirmation")
	return cmd
}

func (c *commandContext) selectItems(ctx context.Context, batchID int64, autoOnly bool) ([]int64, error) {
	var ids []int64
	err := c.withService(func(svc *api.Service) error {
		batch, err := svc.GetImport(ctx, batchID)
		if err != nil {
			return err
		}
		for _, item := range batch.Items {
			if autoOnly && item.NeedsConfirmation {
				continue
			}
			ids = append(ids, item.ID)
		}
		return nil
	})
	return ids, err
}

func parseFinalLemmas(values []string) (map[int64]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[int64]string, len(values))
	for _, value := range values {
		idText, lemma, ok := strings.Cut(value, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --lemma %q (want ITEM=LEMMA)", value)
		}
		id, err := parseID(idText, "item id")
		if err != nil {
			return nil, err
		}
		out[id] = lemma
	}
	return out, nil
}

func mergeIDs(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, list := range [][]int64{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func renderCommit(result *importer.CommitResult) string {
	summary := api.Summarize(result)
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %d committed: %d imported, %d already known, %d rejected",
		summary.BatchID, summary.ImportedWords, summary.SkippedDuplicates, summary.Rejected)
	for _, rejected := range result.Rejected {
		fmt.Fprintf(&b, "\n  item %d: %s", rejected.ItemID, rejected.Reason)
	}
	return b.String()
}
