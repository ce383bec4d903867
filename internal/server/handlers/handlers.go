// Package handlers provides HTTP request handlers for the uispec host.
package handlers

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec/internal/appcontext"
	ws "github.com/agentstation/uispec/internal/server/websocket"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       appcontext.Interface
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time

	// ctx bounds the lifetime of websocket sessions
	ctx context.Context
}

// New creates a new Handlers instance.
func New(
	ctx context.Context,
	app appcontext.Interface,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		app:       app,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		startTime: startTime,
		ctx:       ctx,
	}
}
