package repairer

import (
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/kinds"
)

type options struct {
	registry          *kinds.Registry
	referenceSuffixes []string
	tabGroupSuffixes  []string
	wrapperSuffixes   []string
}

func defaultOptions() *options {
	return &options{
		registry:          kinds.Default(),
		referenceSuffixes: constants.ReferenceSuffixes,
		tabGroupSuffixes:  constants.TabGroupSuffixes,
		wrapperSuffixes:   constants.WrapperSuffixes,
	}
}

// Option is a function that configures a Repairer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRegistry sets the kind registry used to recognize element traits.
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

// WithReferenceSuffixes sets the suffixes tried when a referenced id is
// missing but a suffixed variant exists.
func WithReferenceSuffixes(suffixes ...string) Option {
	return func(o *options) error {
		if err := validSuffixes("reference_suffixes", suffixes); err != nil {
			return err
		}
		o.referenceSuffixes = suffixes
		return nil
	}
}

// WithWrapperSuffixes sets the suffixes that mark a missing id as a wrapper.
func WithWrapperSuffixes(suffixes ...string) Option {
	return func(o *options) error {
		if err := validSuffixes("wrapper_suffixes", suffixes); err != nil {
			return err
		}
		o.wrapperSuffixes = suffixes
		return nil
	}
}

func validSuffixes(field string, suffixes []string) error {
	for _, s := range suffixes {
		if s == "" {
			return &errors.ValidationError{
				Field:   field,
				Message: "suffix cannot be empty",
			}
		}
	}
	return nil
}
