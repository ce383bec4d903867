// Package server provides the HTTP and websocket host for the uispec engine.
// Clients either post one snapshot at a time or hold a websocket session
// that streams snapshots and interactions through a per-session engine.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/server/middleware"
	ws "github.com/agentstation/uispec/internal/server/websocket"
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       appcontext.Interface
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app appcontext.Interface, cfg Config) (*Server, error) {
	if app == nil {
		return nil, &errors.ValidationError{Field: "app", Message: "cannot be nil"}
	}
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultServerAddr
	}
	logger := app.Logger()

	// fail early when the configured pipeline is invalid
	if _, err := app.Pipeline(); err != nil {
		return nil, errors.NewConfigError("server", "building pipeline", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:   app,
		wsHub: ws.NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg),
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	logger.Debug().Str("addr", cfg.Addr).Msg("Server instance created")
	return server, nil
}

// checkOrigin returns the websocket origin policy. Without CORS only
// same-host origins are accepted.
func checkOrigin(cfg Config) func(*http.Request) bool {
	if !cfg.CORSEnabled {
		return nil
	}
	if len(cfg.CORSOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || middleware.OriginAllowed(origin, cfg.CORSOrigins)
	}
}

// Start starts the session hub. It is safe to call more than once.
func (s *Server) Start() {
	s.startOnce.Do(func() {
		s.logger.Debug().Msg("Starting WebSocket hub")
		go s.wsHub.Run(s.ctx)
	})
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown notifies open sessions and stops the hub. It waits for the hub
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Int("sessions", s.wsHub.ClientCount()).Msg("Shutting down session host")

	s.wsHub.Broadcast(ws.Message{
		Type:      ws.TypeShutdown,
		Timestamp: time.Now(),
		Data:      map[string]any{"message": "server shutting down"},
	})
	s.Start() // a hub that never ran must still release Register callers
	s.cancel()

	select {
	case <-s.wsHub.Done():
		s.logger.Info().Msg("Session host shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Session host shutdown timed out")
		return ctx.Err()
	}
}

// HTTPServer builds the http.Server for the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
