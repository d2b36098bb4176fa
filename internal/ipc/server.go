package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"wordcore/internal/api"
	"wordcore/internal/logging"
)

// Server exposes api.Service via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, svc *api.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("ipc server requires api service")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	handler := &service{api: svc, logger: logger, ctx: serverCtx, startedAt: time.Now().UTC()}
	if err := rpcServer.RegisterName(ServiceName, handler); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually"))
	}
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

type service struct {
	api       *api.Service
	logger    *slog.Logger
	ctx       context.Context
	startedAt time.Time
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	health, err := s.api.Store().CheckHealth(s.ctx)
	resp.PID = os.Getpid()
	resp.DatabasePath = health.DBPath
	resp.SchemaVersion = health.SchemaVersion
	resp.Integrity = health.IntegrityCheck
	resp.StartedAt = s.startedAt.Format(time.RFC3339)
	return encodeError(err)
}

func (s *service) SubmitReview(req api.SubmitReviewRequest, resp *SubmitReviewResponse) error {
	outcome, err := s.api.SubmitReview(s.ctx, req)
	if err != nil {
		return encodeError(err)
	}
	resp.Outcome = *outcome
	return nil
}

func (s *service) PlanToday(req PlanTodayRequest, resp *PlanTodayResponse) error {
	plan, err := s.api.PlanToday(s.ctx, req.UserID)
	if err != nil {
		return encodeError(err)
	}
	resp.Plan = *plan
	return nil
}

func (s *service) PreviewImport(req api.PreviewImportRequest, resp *PreviewImportResponse) error {
	preview, err := s.api.PreviewImport(s.ctx, req)
	if err != nil {
		return encodeError(err)
	}
	resp.Preview = *preview
	return nil
}

func (s *service) CommitImport(req api.CommitImportRequest, resp *CommitImportResponse) error {
	result, err := s.api.CommitImport(s.ctx, req)
	if err != nil {
		return encodeError(err)
	}
	resp.Result = *result
	return nil
}

func (s *service) CorrectWord(req api.CorrectWordRequest, resp *CorrectWordResponse) error {
	result, err := s.api.CorrectWord(s.ctx, req)
	if err != nil {
		return encodeError(err)
	}
	*resp = *result
	return nil
}

func (s *service) UpdateWordStatus(req UpdateWordStatusRequest, resp *WordResponse) error {
	word, err := s.api.UpdateWordStatus(s.ctx, req.WordID, req.Status)
	if err != nil {
		return encodeError(err)
	}
	resp.Word = *word
	return nil
}

func (s *service) DeleteWord(req DeleteWordRequest, resp *WordResponse) error {
	word, err := s.api.DeleteWord(s.ctx, req.UserID, req.WordID)
	if err != nil {
		return encodeError(err)
	}
	resp.Word = *word
	return nil
}

func (s *service) ListCorrections(req api.ListCorrectionsRequest, resp *ListCorrectionsResponse) error {
	rows, err := s.api.ListCorrections(s.ctx, req)
	if err != nil {
		return encodeError(err)
	}
	resp.Corrections = rows
	return nil
}
