package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/config"
	"wordcore/internal/importer"
	"wordcore/internal/ipc"
	"wordcore/internal/logging"
	"wordcore/internal/planner"
	"wordcore/internal/review"
	"wordcore/internal/services"
	"wordcore/internal/store"
)

const cliLogFileName = "wordcore-cli.log"

type commandContext struct {
	socketFlag *string
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return strings.TrimSpace(*c.socketFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil {
		return cfg.Paths.SocketPath
	}
	return filepath.Join(os.TempDir(), "wordcore.sock")
}

// withService opens the database in-process for the duration of fn.
func (c *commandContext) withService(fn func(*api.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	svc, err := api.New(cfg, st, logger)
	if err != nil {
		return err
	}
	return fn(svc)
}

// withCore runs fn against the daemon when its socket answers, otherwise
// against an in-process service.
func (c *commandContext) withCore(fn func(coreClient) error) error {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err == nil {
		defer client.Close()
		return fn(remoteCore{client: client})
	}
	if !isDaemonOffline(err) {
		return wrapDialError(err, socket)
	}
	return c.withService(func(svc *api.Service) error {
		return fn(svc)
	})
}

func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      "json",
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, cliLogFileName)},
	})
}

// coreClient is the subset of operations served over the daemon socket.
type coreClient interface {
	SubmitReview(ctx context.Context, req api.SubmitReviewRequest) (*review.Outcome, error)
	PlanToday(ctx context.Context, userID int64) (*planner.Plan, error)
	PreviewImport(ctx context.Context, req api.PreviewImportRequest) (*importer.Preview, error)
	CommitImport(ctx context.Context, req api.CommitImportRequest) (*importer.CommitResult, error)
	CorrectWord(ctx context.Context, req api.CorrectWordRequest) (*api.CorrectWordResponse, error)
	UpdateWordStatus(ctx context.Context, wordID int64, status string) (*store.Word, error)
	DeleteWord(ctx context.Context, userID, wordID int64) (*store.Word, error)
	ListCorrections(ctx context.Context, req api.ListCorrectionsRequest) ([]store.WordCorrection, error)
}

type remoteCore struct {
	client *ipc.Client
}

func (r remoteCore) SubmitReview(_ context.Context, req api.SubmitReviewRequest) (*review.Outcome, error) {
	return r.client.SubmitReview(req)
}

func (r remoteCore) PlanToday(_ context.Context, userID int64) (*planner.Plan, error) {
	return r.client.PlanToday(userID)
}

func (r remoteCore) PreviewImport(_ context.Context, req api.PreviewImportRequest) (*importer.Preview, error) {
	return r.client.PreviewImport(req)
}

func (r remoteCore) CommitImport(_ context.Context, req api.CommitImportRequest) (*importer.CommitResult, error) {
	return r.client.CommitImport(req)
}

func (r remoteCore) CorrectWord(_ context.Context, req api.CorrectWordRequest) (*api.CorrectWordResponse, error) {
	return r.client.CorrectWord(req)
}

func (r remoteCore) UpdateWordStatus(_ context.Context, wordID int64, status string) (*store.Word, error) {
	return r.client.UpdateWordStatus(wordID, status)
}

func (r remoteCore) DeleteWord(_ context.Context, userID, wordID int64) (*store.Word, error) {
	return r.client.DeleteWord(userID, wordID)
}

func (r remoteCore) ListCorrections(_ context.Context, req api.ListCorrectionsRequest) ([]store.WordCorrection, error) {
	return r.client.ListCorrections(req)
}

func isDaemonOffline(err error) bool {
	return errors.Is(err, syscall.ENOENT) || os.IsNotExist(err) || errors.Is(err, syscall.ECONNREFUSED)
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.EACCES):
		return fmt.Errorf("connect to daemon: permission denied on socket %s", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

// formatError adds a retry hint to transient failures.
func formatError(err error) string {
	if services.IsRetryable(err) {
		return err.Error() + " (safe to retry)"
	}
	return err.Error()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
