// Package pipeline sequences sanitize, repair, dedup and reconcile for one
// incoming snapshot and applies live interaction state last.
package pipeline

import (
	"context"

	"github.com/agentstation/uispec/pkg/dedup"
	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/reconciler"
	"github.com/agentstation/uispec/pkg/repairer"
	"github.com/agentstation/uispec/pkg/sanitizer"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// Input is one pipeline invocation.
type Input struct {
	// Next is the incoming snapshot. It may be nil or unusable.
	Next spec.Raw

	// Previous is the last finalized tree, if any.
	Previous *spec.Tree

	// Live holds the interactions since Previous was finalized.
	Live *state.Live
}

// Pipeline runs the full transformation.
type Pipeline interface {
	Run(ctx context.Context, in Input) (*Result, error)
}

type pipeline struct {
	sanitizer  sanitizer.Sanitizer
	repairer   repairer.Repairer
	dedup      dedup.Deduplicator
	reconciler reconciler.Reconciler
	differ     differ.Differ
	tracking   bool
}

// New creates a Pipeline with options. Stages that are not supplied are
// built from the configured registry.
func New(opts ...Option) (Pipeline, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		sanitizer:  options.sanitizer,
		repairer:   options.repairer,
		dedup:      options.dedup,
		reconciler: options.reconciler,
		differ:     differ.New(),
		tracking:   options.tracking,
	}
	if p.sanitizer == nil {
		if p.sanitizer, err = sanitizer.New(sanitizer.WithRegistry(options.registry)); err != nil {
			return nil, err
		}
	}
	if p.repairer == nil {
		if p.repairer, err = repairer.New(repairer.WithRegistry(options.registry)); err != nil {
			return nil, err
		}
	}
	if p.dedup == nil {
		if p.dedup, err = dedup.New(dedup.WithRegistry(options.registry)); err != nil {
			return nil, err
		}
	}
	if p.reconciler == nil {
		ropts := []reconciler.Option{reconciler.WithProvenance(options.tracking)}
		if options.weights != nil {
			ropts = append(ropts, reconciler.WithWeights(*options.weights))
		}
		if p.reconciler, err = reconciler.New(ropts...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Run implements Pipeline.
func (p *pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	result := NewResult()

	var tracker provenance.Tracker
	if p.tracking {
		tracker = provenance.NewTracker(true)
	}

	next, report, err := p.sanitizer.Raw(ctx, in.Next)
	result.Reports = append(result.Reports, report)

	switch {
	case err != nil && in.Previous == nil:
		logger.Debug().Err(err).Msg("No tree in snapshot and no previous tree")
		result.Finalize()
		return result, nil

	case err != nil:
		if !errors.IsNoTree(err) {
			logger.Warn().Err(err).Msg("Sanitizer failed")
		}
		logger.Warn().
			Str("root", in.Previous.Root).
			Msg("Falling back to previous tree")
		result.Outcome = OutcomeFallback
		result.Tree = p.finish(ctx, in.Previous, result)
		if tracker != nil {
			state.MergeTracked(in.Previous.State, nil, tracker)
		}

	case in.Previous == nil:
		result.Outcome = OutcomeFresh
		result.Tree = p.finish(ctx, next, result)
		if tracker != nil {
			state.MergeTracked(nil, result.Tree.State, tracker)
		}

	default:
		repaired := p.finish(ctx, next, result)
		reconciled, err := p.reconciler.Reconcile(ctx, in.Previous, repaired)
		if err != nil {
			return nil, err
		}
		result.Outcome = OutcomeReconciled
		result.Mapping = reconciled.Mapping
		result.Tree = p.finish(ctx, reconciled.Tree, result)
		if tracker != nil && reconciled.Replaced {
			state.MergeTracked(nil, result.Tree.State, tracker)
		} else if tracker != nil {
			for path, history := range reconciled.Provenance {
				for _, entry := range history {
					tracker.Track(path, entry)
				}
			}
		}
	}

	if in.Live != nil {
		result.Tree.State = in.Live.ApplyTracked(result.Tree.State, tracker)
	}
	if tracker != nil {
		result.Provenance = tracker.Map()
	}
	result.Changeset = p.differ.Trees(in.Previous, result.Tree)
	result.Finalize()

	logger.Debug().
		Str("outcome", result.Outcome.String()).
		Str("root", result.Tree.Root).
		Int("elements", len(result.Tree.Elements)).
		Int("fixes", len(result.Fixes())).
		Dur("elapsed", result.Metadata.Duration).
		Msg("Pipeline finished")

	return result, nil
}

// finish runs repair then dedup and records both reports.
func (p *pipeline) finish(ctx context.Context, t *spec.Tree, result *Result) *spec.Tree {
	repaired, report := p.repairer.Repair(ctx, t)
	result.Reports = append(result.Reports, report)
	deduped, report := p.dedup.Dedup(ctx, repaired)
	result.Reports = append(result.Reports, report)
	return deduped
}
