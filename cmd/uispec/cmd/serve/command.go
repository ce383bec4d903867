// Package serve provides the serve command, which hosts conversations over
// WebSocket and a stateless normalize endpoint over HTTP.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/cmd/emoji"
	"github.com/agentstation/uispec/internal/server"
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
)

// NewCommand creates the serve command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "management",
		Short:   "Host reconciliation sessions over WebSocket",
		Long: `Serve starts the session host.

Endpoints:
  GET  /health                 liveness
  GET  <prefix>/ready          readiness and open session count
  POST <prefix>/normalize      run one snapshot (optionally with a previous tree)
  GET  <prefix>/session/ws     one conversation per WebSocket connection

A session receives "snapshot" messages (set "final" on the last snapshot of
a turn) and "interact" messages, and answers each with a "tree" message.`,
		Example: `  # Start on the configured address
  uispec serve

  # Listen on all interfaces and allow a browser app
  uispec serve --addr 0.0.0.0:8787 --cors-origins https://app.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := defaults
			cfg.Addr = mustGetString(cmd, "addr")
			cfg.PathPrefix = mustGetString(cmd, "prefix")
			cfg.CORSEnabled = mustGetBool(cmd, "cors")
			cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
			cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
			cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
			cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")
			// config values are read at run time so --config applies
			if cfg.Addr == "" {
				cfg.Addr = app.ServerAddr()
			}
			if cfg.Addr == "" {
				cfg.Addr = defaults.Addr
			}
			if !cmd.Flags().Changed("cors-origins") {
				cfg.CORSOrigins = app.AllowedOrigins()
			}
			if len(cfg.CORSOrigins) > 0 {
				cfg.CORSEnabled = true
			}
			return run(cmd, app, cfg)
		},
	}

	cmd.Flags().String("addr", "", fmt.Sprintf("Listen address (host:port, default from config or %s)", defaults.Addr))
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS and WebSocket origins (comma-separated)")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// run serves until the command context is cancelled.
func run(cmd *cobra.Command, app appcontext.Interface, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return err
	}
	srv.Start()

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return errors.WrapIO("listen", cfg.Addr, err)
	}

	httpServer := srv.HTTPServer()
	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", listener.Addr().String()).
			Str("prefix", cfg.PathPrefix).
			Bool("cors", cfg.CORSEnabled).
			Msg("Server starting")
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s%s (Ctrl+C to stop)\n", listener.Addr(), cfg.PathPrefix)

	select {
	case err := <-serverErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-cmd.Context().Done():
		logger.Info().Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	// sessions first so peers see the shutdown message before the listener closes
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Session host did not stop cleanly")
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-serverErr

	logger.Info().Msg("Server stopped gracefully")
	fmt.Fprintf(cmd.OutOrStdout(), "%s Server stopped gracefully\n", emoji.Success)
	return nil
}

func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(err)
	}
	return v
}
