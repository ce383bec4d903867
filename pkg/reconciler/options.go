package reconciler

import (
	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	weights    Weights
	tracking   bool
	differOpts []differ.Option
	scorer     Scorer
}

func defaultOptions() *options {
	return &options{
		weights:  DefaultWeights(),
		tracking: false,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithWeights sets the match scoring weights.
func WithWeights(weights Weights) Option {
	return func(r *options) error {
		if err := weights.Validate(); err != nil {
			return err
		}
		r.weights = weights
		return nil
	}
}

// WithScorer replaces the weighted scorer.
func WithScorer(scorer Scorer) Option {
	return func(r *options) error {
		if scorer == nil {
			return &errors.ValidationError{
				Field:   "scorer",
				Message: "cannot be nil",
			}
		}
		r.scorer = scorer
		return nil
	}
}

// WithProvenance enables state provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(r *options) error {
		r.tracking = enabled
		return nil
	}
}

// WithDifferOptions configures the differ that computes result changesets.
func WithDifferOptions(opts ...differ.Option) Option {
	return func(r *options) error {
		r.differOpts = append(r.differOpts, opts...)
		return nil
	}
}
