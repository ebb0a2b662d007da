package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"subgen/internal/api"
	"subgen/internal/artifacts"
	"subgen/internal/config"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/services"
	"subgen/internal/workpool"
)

// StatusProvider reports daemon runtime information for /api/daemon.
type StatusProvider interface {
	Status() api.DaemonStatus
}

// Server exposes the upload, status, download, list, and cleanup operations.
type Server struct {
	bind     string
	logger   *slog.Logger
	cfg      *config.Config
	registry *jobs.Store
	store    *artifacts.Store
	pool     *workpool.Pool
	status   StatusProvider

	listener net.Listener
	server   *http.Server
}

// New constructs the API server. status may be nil; /api/daemon then reports
// a zero snapshot.
func New(cfg *config.Config, registry *jobs.Store, store *artifacts.Store, pool *workpool.Pool, status StatusProvider, logger *slog.Logger) *Server {
	srv := &Server{
		bind:     cfg.Paths.APIBind,
		logger:   logging.NewComponentLogger(logger, "httpapi"),
		cfg:      cfg,
		registry: registry,
		store:    store,
		pool:     pool,
		status:   status,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(api.UploadPath, srv.handleUpload)
	mux.HandleFunc(api.JobsPath, srv.handleJobs)
	mux.HandleFunc(api.StatusPath, srv.handleStatus)
	mux.HandleFunc(api.DownloadPath, srv.handleDownload)
	mux.HandleFunc(api.SubtitlesPath, srv.handleSubtitles)
	mux.HandleFunc(api.CleanupPath, srv.handleCleanup)
	mux.HandleFunc(api.DaemonPath, srv.handleDaemon)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute, // uploads can be large
		WriteTimeout:      time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving and shuts down when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workpool.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
