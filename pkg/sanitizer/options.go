package sanitizer

import (
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/kinds"
)

type options struct {
	registry *kinds.Registry
	schemas  bool
}

func defaultOptions() *options {
	return &options{
		registry: kinds.Default(),
		schemas:  true,
	}
}

// Option is a function that configures a Sanitizer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRegistry sets the kind registry used for prop validation.
func WithRegistry(registry *kinds.Registry) Option {
	return func(o *options) error {
		if registry == nil {
			return &errors.ValidationError{
				Field:   "registry",
				Message: "cannot be nil",
			}
		}
		o.registry = registry
		return nil
	}
}

// WithSchemaValidation toggles removal of props that violate their kind's schema.
func WithSchemaValidation(enabled bool) Option {
	return func(o *options) error {
		o.schemas = enabled
		return nil
	}
}
