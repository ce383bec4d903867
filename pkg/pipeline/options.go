package pipeline

import (
	"github.com/agentstation/uispec/pkg/dedup"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/reconciler"
	"github.com/agentstation/uispec/pkg/repairer"
	"github.com/agentstation/uispec/pkg/sanitizer"
)

type options struct {
	registry   *kinds.Registry
	sanitizer  sanitizer.Sanitizer
	repairer   repairer.Repairer
	dedup      dedup.Deduplicator
	reconciler reconciler.Reconciler
	weights    *reconciler.Weights
	tracking   bool
}

func defaultOptions() *options {
	return &options{registry: kinds.Default()}
}

// Option is a function that configures a Pipeline.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRegistry sets the kind registry shared by every stage the pipeline builds.
func WithRegistry(registry *kinds.Registry) Option {
	return func(o *options) error {
		if registry == nil {
			return &errors.ValidationError{Field: "registry", Message: "cannot be nil"}
		}
		o.registry = registry
		return nil
	}
}

// WithSanitizer replaces the sanitizer stage.
func WithSanitizer(s sanitizer.Sanitizer) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{Field: "sanitizer", Message: "cannot be nil"}
		}
		o.sanitizer = s
		return nil
	}
}

// WithRepairer replaces the repairer stage.
func WithRepairer(r repairer.Repairer) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{Field: "repairer", Message: "cannot be nil"}
		}
		o.repairer = r
		return nil
	}
}

// WithDeduplicator replaces the deduplicator stage.
func WithDeduplicator(d dedup.Deduplicator) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{Field: "deduplicator", Message: "cannot be nil"}
		}
		o.dedup = d
		return nil
	}
}

// WithReconciler replaces the reconciler stage.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{Field: "reconciler", Message: "cannot be nil"}
		}
		o.reconciler = r
		return nil
	}
}

// WithWeights sets the match weights of the default reconciler.
func WithWeights(w reconciler.Weights) Option {
	return func(o *options) error {
		if err := w.Validate(); err != nil {
			return err
		}
		o.weights = &w
		return nil
	}
}

// WithProvenance enables state provenance tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
