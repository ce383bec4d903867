// Package appcontext provides the shared application context interface
// used by all commands and the websocket host. It is the single source of
// truth for what an app must provide.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec"
	"github.com/agentstation/uispec/pkg/pipeline"
)

// Interface defines the application context that commands need.
// The App struct from cmd/uispec/app implements this interface.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
type Interface interface {
	// Pipeline builds a pipeline from the configured weights and provenance
	// setting. Extra options are applied last.
	Pipeline(opts ...pipeline.Option) (pipeline.Pipeline, error)

	// Engine builds a new engine from the configured pipeline and cache TTL.
	// Every call returns an independent engine.
	Engine(opts ...uispec.Option) (uispec.Engine, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// ServerAddr returns the configured listen address of the host.
	ServerAddr() string

	// AllowedOrigins returns the configured browser origins of the host.
	AllowedOrigins() []string

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
