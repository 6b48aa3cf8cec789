package server

import (
	"log/slog"
	"net/http"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/config"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/handlers"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/mw"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/sessions"
)

type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	mux      *http.ServeMux
	registry *tools.Registry
	tracker  *sessions.Tracker
}

func New(cfg config.Config, registry *tools.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		registry: registry,
		tracker:  sessions.NewTracker(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg, Registry: s.registry})

	s.mux.Handle("/v1/live", handlers.LiveHandler{
		Config:       s.cfg,
		Registry:     s.registry,
		Logger:       s.logger,
		LiveSessions: s.tracker,
	})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// Sessions exposes the live session tracker for shutdown coordination.
func (s *Server) Sessions() *sessions.Tracker {
	return s.tracker
}
