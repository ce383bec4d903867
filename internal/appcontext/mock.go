package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/uispec"
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/pipeline"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// Pipeline and Engine fall back to real defaults so commands can run end to end.
type Mock struct {
	PipelineFunc       func(...pipeline.Option) (pipeline.Pipeline, error)
	EngineFunc         func(...uispec.Option) (uispec.Engine, error)
	LoggerFunc         func() *zerolog.Logger
	ServerAddrFunc     func() string
	AllowedOriginsFunc func() []string
	OutputFormatFunc   func() string
	VersionFunc        func() string
	CommitFunc         func() string
	DateFunc           func() string
	BuiltByFunc        func() string
}

// Pipeline returns a pipeline using the mock function or a default pipeline.
func (m *Mock) Pipeline(opts ...pipeline.Option) (pipeline.Pipeline, error) {
	if m.PipelineFunc != nil {
		return m.PipelineFunc(opts...)
	}
	return pipeline.New(opts...)
}

// Engine returns an engine using the mock function or a default engine.
func (m *Mock) Engine(opts ...uispec.Option) (uispec.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc(opts...)
	}
	return uispec.New(opts...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// ServerAddr returns the address using the mock function or the default.
func (m *Mock) ServerAddr() string {
	if m.ServerAddrFunc != nil {
		return m.ServerAddrFunc()
	}
	return constants.DefaultServerAddr
}

// AllowedOrigins returns origins using the mock function or none.
func (m *Mock) AllowedOrigins() []string {
	if m.AllowedOriginsFunc != nil {
		return m.AllowedOriginsFunc()
	}
	return nil
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
