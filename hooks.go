package uispec

import (
	"sync"

	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/spec"
)

// Hook function types for element events.
type (
	// ElementAddedHook is called when a finalized turn adds an element.
	ElementAddedHook func(id string, element *spec.Element)

	// ElementUpdatedHook is called when a finalized turn changes an element.
	ElementUpdatedHook func(id string, old, new *spec.Element, changes []differ.FieldChange)

	// ElementRemovedHook is called when a finalized turn removes an element.
	ElementRemovedHook func(id string, element *spec.Element)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnElementAdded registers a callback for when elements are added
	OnElementAdded(ElementAddedHook)

	// OnElementUpdated registers a callback for when elements are updated
	OnElementUpdated(ElementUpdatedHook)

	// OnElementRemoved registers a callback for when elements are removed
	OnElementRemoved(ElementRemovedHook)
}

// hooks manages event callbacks for tree changes.
type hooks struct {
	mu               sync.RWMutex
	onElementAdded   []ElementAddedHook
	onElementUpdated []ElementUpdatedHook
	onElementRemoved []ElementRemovedHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

// OnElementAdded registers a callback for when elements are added.
func (h *hooks) OnElementAdded(fn ElementAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onElementAdded = append(h.onElementAdded, fn)
}

// OnElementUpdated registers a callback for when elements are updated.
func (h *hooks) OnElementUpdated(fn ElementUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onElementUpdated = append(h.onElementUpdated, fn)
}

// OnElementRemoved registers a callback for when elements are removed.
func (h *hooks) OnElementRemoved(fn ElementRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onElementRemoved = append(h.onElementRemoved, fn)
}

// trigger fires hooks for every element change in changeset.
func (h *hooks) trigger(changeset *differ.Changeset) {
	if changeset == nil || changeset.Elements == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, added := range changeset.Elements.Added {
		for _, hook := range h.onElementAdded {
			hook(added.ID, added.Element)
		}
	}
	for _, update := range changeset.Elements.Updated {
		for _, hook := range h.onElementUpdated {
			hook(update.ID, update.Existing, update.New, update.Changes)
		}
	}
	for _, removed := range changeset.Elements.Removed {
		for _, hook := range h.onElementRemoved {
			hook(removed.ID, removed.Element)
		}
	}
}
