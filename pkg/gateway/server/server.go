// Package server assembles the gateway's routes and middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/Arjgorithmic/VoiceBot/pkg/core/voice"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/config"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/handlers"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/live"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/mw"
	"github.com/Arjgorithmic/VoiceBot/pkg/gateway/session"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	session   *session.Session
	artifacts *voice.ArtifactStore
	feed      *live.Feed
}

// New wires the gateway around one session. The session's transcript
// updates drive the live feed.
func New(cfg config.Config, sess *session.Session, artifacts *voice.ArtifactStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		session:   sess,
		artifacts: artifacts,
		feed:      live.NewFeed(logger, cfg.LiveWSPingInterval, cfg.CORSAllowedOrigins),
	}

	sess.OnUpdate(func(turns int) {
		s.feed.Broadcast(live.Event{Type: live.EventTranscriptUpdated, Turns: turns})
	})

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg})

	s.mux.Handle("/v1/turns/text", handlers.TextTurnHandler{
		Session:      s.session,
		MaxBodyBytes: s.cfg.MaxBodyBytes,
		Logger:       s.logger,
	})
	s.mux.Handle("/v1/turns/audio", handlers.AudioTurnHandler{
		Session:      s.session,
		MaxClipBytes: s.cfg.MaxClipBytes,
		Logger:       s.logger,
	})
	s.mux.Handle("/v1/transcript", handlers.TranscriptHandler{Session: s.session})
	s.mux.Handle("/v1/audio/", handlers.AudioArtifactHandler{Artifacts: s.artifacts})
	s.mux.Handle("/v1/live", s.feed)

	s.mux.Handle("/", handlers.NotFoundHandler{})
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg.CORSAllowedOrigins, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// CloseLiveFeed disconnects live subscribers during shutdown.
func (s *Server) CloseLiveFeed() {
	s.feed.Close()
}
