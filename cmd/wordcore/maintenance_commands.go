package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/daemonrun"
	"wordcore/internal/logging"
	"wordcore/internal/logs"
	"wordcore/internal/preflight"
	"wordcore/internal/store"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent copy of the database to the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				result, err := svc.Backup(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, result, func() string {
					line := fmt.Sprintf("Backup written to %s", result.Path)
					if len(result.Pruned) > 0 {
						line += fmt.Sprintf(" (%d old backups removed)", len(result.Pruned))
					}
					return line
				})
			})
		},
	}
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database integrity, and the daemon socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, openErr := store.Open(cfg)
			if openErr == nil {
				defer st.Close()
			}
			results := preflight.RunAll(cmd.Context(), cfg, st)
			if openErr != nil {
				results = append(results, preflight.Result{Name: "Database", Passed: false, Detail: openErr.Error()})
			}

			failed := preflight.Failed(results)
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, strings.Join(renderSectionHeader("wordcore doctor", colorize), "\n"))
				for _, r := range results {
					fmt.Fprintln(out, renderStatusLine(r.Name, checkKind(r), r.Detail, colorize))
				}
				fmt.Fprintln(out, renderCheckSummary(results, colorize))
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var opts daemonrun.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wordcore daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.socketFlag != nil && strings.TrimSpace(*ctx.socketFlag) != "" {
				cfg.Paths.SocketPath = strings.TrimSpace(*ctx.socketFlag)
			}
			if err := daemonrun.Run(cmd.Context(), cfg, opts); err != nil {
				return errors.Join(errors.New("daemon exited"), err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&opts.Development, "dev", false, "Include source locations in logs")
	return cmd
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		userID int64
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := logs.Options{Lines: lines, Follow: follow}
			if userID > 0 {
				opts.Filter = logs.UserFilter(userID)
			}
			out := cmd.OutOrStdout()
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			return logs.Tail(cmd.Context(), path, opts, func(line string) error {
				_, err := fmt.Fprintln(out, line)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().Int64Var(&userID, "user", 0, "Only lines for this learner")
	return cmd
}
