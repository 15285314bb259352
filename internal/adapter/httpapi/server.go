package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"browser-tool/internal/application/port/input"
	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const maxBodyBytes = 1 << 20

type Config struct {
	// AccessLog enables httplog request logging.
	AccessLog       bool
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		AccessLog:       true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server exposes the browser tool over HTTP for hosts running out of process.
type Server struct {
	tool    output.ToolPort
	session input.BrowserActionExecutor
	logger  output.LoggerPort
	cfg     Config
	router  *chi.Mux
}

func NewServer(tool output.ToolPort, session input.BrowserActionExecutor, logger output.LoggerPort, cfg Config) *Server {
	s := &Server{
		tool:    tool,
		session: session,
		logger:  logger.WithField("component", "http"),
		cfg:     cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	if s.cfg.AccessLog {
		router.Use(httplog.RequestLogger(httplog.NewLogger("browser-tool", httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.handleHealthz)
	router.Route("/v1/browser", func(r chi.Router) {
		r.Post("/actions", s.handleAction)
		r.Get("/schema", s.handleSchema)
		r.Delete("/session", s.handleCloseSession)
	})
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	result, err := s.tool.Execute(r.Context(), string(body))
	if err != nil {
		s.logger.Error("Tool execution failed", "error", err)
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, actionResponse{Result: result})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, entity.ToolDefinition{
		Name:        s.tool.Name().String(),
		Description: s.tool.Description(),
		Parameters:  s.tool.Parameters(),
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Close(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type actionResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
