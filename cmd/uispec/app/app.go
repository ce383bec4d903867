// Package app provides the application context and dependency management
// for the uispec CLI. It centralizes configuration, logging and the
// construction of pipelines and engines from that configuration.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/uispec"
	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/sanitizer"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the uispec application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can
// be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// ServerAddr returns the configured listen address.
func (a *App) ServerAddr() string {
	return a.config.ServerAddr
}

// AllowedOrigins returns the configured browser origins.
func (a *App) AllowedOrigins() []string {
	return a.config.AllowedOrigins
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Pipeline builds a pipeline from the configuration. Extra options are
// applied after the configured ones.
func (a *App) Pipeline(opts ...pipeline.Option) (pipeline.Pipeline, error) {
	s, err := sanitizer.New(sanitizer.WithSchemaValidation(a.config.SchemaValidation))
	if err != nil {
		return nil, errors.NewConfigError("sanitizer", "invalid sanitizer options", err)
	}

	base := []pipeline.Option{
		pipeline.WithSanitizer(s),
		pipeline.WithWeights(a.config.Weights),
		pipeline.WithProvenance(a.config.Provenance),
	}
	p, err := pipeline.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("pipeline", "invalid pipeline options", err)
	}
	return p, nil
}

// Engine builds a new engine from the configuration.
func (a *App) Engine(opts ...uispec.Option) (uispec.Engine, error) {
	p, err := a.Pipeline()
	if err != nil {
		return nil, err
	}
	base := []uispec.Option{
		uispec.WithPipeline(p),
		uispec.WithCacheTTL(a.config.CacheTTL),
	}
	return uispec.New(append(base, opts...)...)
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Application shut down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
