// Package uispec provides the main entry point for reconciling streamed,
// model-generated UI trees. An Engine keeps the last finalized tree of a
// conversation and the user's live interactions, and turns every incoming
// snapshot into one renderable tree.
//
// Engine wraps the pipeline with additional features including:
// - Turn bookkeeping (previous finalized tree, live state reset)
// - Event hooks for element changes (added, updated, removed)
// - Memoization of repeated streaming snapshots
//
// Example usage:
//
//	engine, err := uispec.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine.OnElementAdded(func(id string, el *spec.Element) {
//	    log.Printf("New element: %s (%s)", id, el.Type)
//	})
//
//	// Stream partial snapshots
//	result, err := engine.Update(ctx, partial)
//
//	// Record an interaction
//	engine.Interact("/activeRange", "1m")
//
//	// Close the turn
//	result, err = engine.Finalize(ctx, final)
package uispec

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/agentstation/uispec/internal/cache"
	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// Compile-time interface check to ensure proper implementation.
var _ Engine = (*engine)(nil)

// Engine processes the snapshots of one conversation.
type Engine interface {
	// Update processes a streaming snapshot against the previous finalized
	// tree. It does not advance the turn. Results are shared with the memo
	// and must not be modified.
	Update(ctx context.Context, raw spec.Raw) (*pipeline.Result, error)

	// Finalize processes the final snapshot of a turn, stores the result as
	// the previous tree, clears live state and fires hooks.
	Finalize(ctx context.Context, raw spec.Raw) (*pipeline.Result, error)

	// Interact records a user interaction at a state path.
	Interact(path string, value any)

	// Previous returns a copy of the last finalized tree, or nil.
	Previous() *spec.Tree

	// Live returns the live state accumulator.
	Live() *state.Live

	// Reset forgets the previous tree, live state and memo.
	Reset()

	// Hooks provides access to event callback registration
	Hooks
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	pipeline pipeline.Pipeline

	// mu serializes runs and guards previous
	mu         sync.Mutex
	previous   *spec.Tree
	generation atomic.Uint64 // bumped whenever previous changes

	live  *state.Live
	memo  *cache.Cache // nil when memoization is disabled
	hooks *hooks
}

// New creates a new Engine instance with the given options.
func New(opts ...Option) (Engine, error) {
	options, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	p := options.pipeline
	if p == nil {
		if p, err = pipeline.New(options.pipelineOpts...); err != nil {
			return nil, err
		}
	}

	e := &engine{
		pipeline: p,
		previous: options.previous,
		live:     options.live,
		hooks:    newHooks(),
	}
	if e.live == nil {
		e.live = state.NewLive()
	}
	if options.cacheTTL > 0 {
		e.memo = cache.New(options.cacheTTL, constants.CacheCleanupInterval)
	}
	return e, nil
}

// Update implements Engine.
func (e *engine) Update(ctx context.Context, raw spec.Raw) (*pipeline.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run(ctx, raw)
}

// Finalize implements Engine.
func (e *engine) Finalize(ctx context.Context, raw spec.Raw) (*pipeline.Result, error) {
	e.mu.Lock()
	result, err := e.run(ctx, raw)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if result.HasTree() {
		e.previous = result.Tree.Clone()
		e.generation.Add(1)
		e.live.Reset()
	}
	e.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("outcome", result.Outcome.String()).
		Uint64("generation", e.generation.Load()).
		Msg("Turn finalized")

	e.hooks.trigger(result.Changeset)
	return result, nil
}

// run executes the pipeline, consulting the memo first. Callers hold mu.
func (e *engine) run(ctx context.Context, raw spec.Raw) (*pipeline.Result, error) {
	logger := logging.FromContext(ctx)

	var key string
	if e.memo != nil {
		k, err := cache.Key(raw, e.generation.Load(), e.live.Version())
		if err == nil {
			key = k
			if cached, ok := e.memo.Get(key); ok {
				logger.Debug().Str("key", key[:12]).Msg("Memo hit")
				return cached.(*pipeline.Result), nil
			}
		} else {
			logger.Debug().Err(err).Msg("Snapshot is not hashable, skipping memo")
		}
	}

	result, err := e.pipeline.Run(ctx, pipeline.Input{
		Next:     raw,
		Previous: e.previous,
		Live:     e.live,
	})
	if err != nil {
		return nil, err
	}
	if key != "" {
		e.memo.Set(key, result)
	}
	return result, nil
}

// Interact implements Engine.
func (e *engine) Interact(path string, value any) {
	e.live.Set(path, value)
}

// Previous implements Engine.
func (e *engine) Previous() *spec.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previous.Clone()
}

// Live implements Engine.
func (e *engine) Live() *state.Live {
	return e.live
}

// Reset implements Engine.
func (e *engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.previous = nil
	e.generation.Add(1)
	e.live.Reset()
	if e.memo != nil {
		e.memo.Clear()
	}
}

// OnElementAdded registers a callback for when elements are added.
func (e *engine) OnElementAdded(fn ElementAddedHook) {
	e.hooks.OnElementAdded(fn)
}

// OnElementUpdated registers a callback for when elements are updated.
func (e *engine) OnElementUpdated(fn ElementUpdatedHook) {
	e.hooks.OnElementUpdated(fn)
}

// OnElementRemoved registers a callback for when elements are removed.
func (e *engine) OnElementRemoved(fn ElementRemovedHook) {
	e.hooks.OnElementRemoved(fn)
}
