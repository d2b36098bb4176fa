package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"wordcore/internal/config"
	"wordcore/internal/importer"
	"wordcore/internal/ledger"
	"wordcore/internal/logging"
	"wordcore/internal/planner"
	"wordcore/internal/policy"
	"wordcore/internal/report"
	"wordcore/internal/review"
	"wordcore/internal/scoring"
	"wordcore/internal/services"
	"wordcore/internal/srs"
	"wordcore/internal/store"
)

// Service exposes the core operations over one store.
type Service struct {
	cfg        *config.Config
	store      *store.Store
	params     srs.Params
	dictionary *scoring.DictionaryScorer
	planner    *planner.Planner
	importer   *importer.Pipeline
	ledger     *ledger.Ledger
	reviews    *review.Service
	reports    *report.Reporter
	logger     *slog.Logger
}

// New wires a Service from cfg. The dictionary file, when configured, is
// loaded once here.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Service, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("api service requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	params := srs.ParamsFromConfig(cfg.SRS)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var extra []string
	if path := strings.TrimSpace(cfg.Import.DictionaryPath); path != "" {
		words, err := scoring.LoadDictionary(path)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "api", "load dictionary", path, err)
		}
		extra = words
	}
	dictionary := scoring.NewDictionaryScorer(extra...)

	return &Service{
		cfg:        cfg,
		store:      st,
		params:     params,
		dictionary: dictionary,
		planner:    planner.New(st, planner.WeightsFromConfig(cfg.Planner), logger),
		importer:   importer.New(st, dictionary, cfg.Import, logger),
		ledger:     ledger.New(st, logger),
		reviews:    review.New(st, params, logger),
		reports:    report.New(st),
		logger:     logging.NewComponentLogger(logger, "api"),
	}, nil
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// begin tags ctx with a fresh request id and returns the matching logger.
func (s *Service) begin(ctx context.Context, op string) (context.Context, *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, s.logger).With(logging.String("operation", op))
	logger.Debug("request started")
	return ctx, logger
}

// failed logs err at a level matching its kind and returns it unchanged.
func failed(logger *slog.Logger, err error) error {
	if err == nil {
		return nil
	}
	kind := services.ErrorKind(err)
	switch kind {
	case services.KindInternal, services.KindTransient, services.KindConfiguration:
		logging.ErrorWithContext(logger, "request failed", "request_failed",
			logging.String(logging.FieldErrorKind, kind),
			logging.Error(err),
		)
	default:
		logger.Info("request rejected",
			logging.String(logging.FieldErrorKind, kind),
			logging.Error(err),
		)
	}
	return err
}

// ResolvePolicy returns the learner's stored settings, or the configured
// defaults when none are stored.
func (s *Service) ResolvePolicy(ctx context.Context, userID int64) (policy.Settings, bool, error) {
	stored, err := s.store.GetParentSettings(ctx, userID)
	if err != nil {
		return policy.Settings{}, false, err
	}
	if stored != nil {
		return *stored, true, nil
	}
	return policy.FromConfig(s.cfg.Policy), false, nil
}

// scorerFor returns the import scorer for userID, folding in correction
// history when there is any.
func (s *Service) scorerFor(ctx context.Context, userID int64) (scoring.Scorer, error) {
	patterns, err := s.ledger.Patterns(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return s.dictionary, nil
	}
	return scoring.NewCorrectionScorer(s.dictionary, patterns, s.cfg.Import.CorrectionPenalty), nil
}

func requireUser(ctx context.Context, st *store.Store, userID int64) error {
	if userID <= 0 {
		return services.Validation("api", "resolve user", fmt.Sprintf("invalid user id %d", userID))
	}
	_, err := st.GetUser(ctx, userID)
	return err
}
