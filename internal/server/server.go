package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"orato/internal/api"
	"orato/internal/config"
	"orato/internal/history"
	"orato/internal/logging"
	"orato/internal/presentation"
	"orato/internal/scam"
)

// Analyzer runs the presentation pipeline over a saved recording.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (presentation.Result, error)
}

// Classifier labels a text message.
type Classifier interface {
	Predict(ctx context.Context, message string) (scam.Verdict, error)
}

// Assistant answers free-form campus questions. It never fails; transport
// problems come back as apology text.
type Assistant interface {
	Chat(ctx context.Context, message string) string
}

// Campus answers deterministic knowledge-base lookups.
type Campus interface {
	TimetableForDay(day string) string
	SubjectInfo(query string) string
	RoomInfo(query string) string
}

// StatusFunc reports service health for /api/status. deep adds checks that
// call paid upstream services.
type StatusFunc func(ctx context.Context, deep bool) api.ServiceStatus

// Dependencies are the pipelines behind the routes. History may be nil.
type Dependencies struct {
	Analyzer   Analyzer
	Classifier Classifier
	Assistant  Assistant
	Campus     Campus
	History    *history.Store
	Status     StatusFunc
}

// Server is the HTTP API.
type Server struct {
	cfg    *config.Config
	deps   Dependencies
	logger *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds the router and middleware chain. It does not listen.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /analyze/history", s.handleAnalyzeHistory)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /timetable/{day}", s.handleTimetable)
	mux.HandleFunc("GET /subject/{name}", s.handleSubject)
	mux.HandleFunc("GET /room/{query}", s.handleRoom)
	mux.HandleFunc("GET /scam/{$}", s.handleScamHome)
	mux.HandleFunc("GET /scam/predict_page", s.handlePredictPage)
	mux.HandleFunc("POST /scam/predict", s.handlePredict)
	mux.HandleFunc("GET /scam/history", s.handleHistory)
	mux.HandleFunc("DELETE /scam/history", s.handleClearHistory)
	mux.HandleFunc("GET /scam/stats", s.handleStats)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	s.handler = chain(mux,
		withRequestID,
		s.recoverPanics,
		s.cors,
		s.authMiddleware(cfg.Paths.APIToken),
	)
	// Uploads can take minutes to analyze; only header reads are bounded
	// tightly.
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured bind address and serves until ctx is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests for up to the configured shutdown timeout.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	timeout := time.Duration(s.cfg.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log().Warn("api server shutdown incomplete", logging.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
