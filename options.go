package uispec

import (
	"time"

	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// options holds the configuration of an Engine.
type options struct {
	pipelineOpts []pipeline.Option
	pipeline     pipeline.Pipeline
	cacheTTL     time.Duration
	previous     *spec.Tree
	live         *state.Live
}

func defaults() *options {
	return &options{
		cacheTTL: constants.CacheTTL,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures an Engine instance.
type Option func(*options) error

// WithPipelineOptions configures the pipeline the engine builds.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) error {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
		return nil
	}
}

// WithPipeline replaces the pipeline entirely. Pipeline options are ignored.
func WithPipeline(p pipeline.Pipeline) Option {
	return func(o *options) error {
		if p == nil {
			return &errors.ValidationError{Field: "pipeline", Message: "cannot be nil"}
		}
		o.pipeline = p
		return nil
	}
}

// WithCacheTTL sets how long results are memoized. Zero disables memoization.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) error {
		if ttl < 0 {
			return &errors.ValidationError{Field: "cache_ttl", Value: ttl, Message: "cannot be negative"}
		}
		o.cacheTTL = ttl
		return nil
	}
}

// WithPrevious seeds the engine with a finalized tree, as when resuming a session.
func WithPrevious(t *spec.Tree) Option {
	return func(o *options) error {
		o.previous = t.Clone()
		return nil
	}
}

// WithLive uses an existing live state accumulator.
func WithLive(live *state.Live) Option {
	return func(o *options) error {
		if live == nil {
			return &errors.ValidationError{Field: "live", Message: "cannot be nil"}
		}
		o.live = live
		return nil
	}
}
