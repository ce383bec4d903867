package server

import (
	"time"

	"github.com/agentstation/uispec/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (host:port)
	Addr string

	// API settings
	PathPrefix string

	// CORS settings. Websocket origins follow the same list.
	CORSEnabled bool
	CORSOrigins []string

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         constants.DefaultServerAddr,
		PathPrefix:   "/api/v1",
		CORSOrigins:  []string{},
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
