package state

import (
	"sync"

	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
)

// Write is one live state mutation.
type Write struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// Live accumulates the state paths a user mutated since the last completed
// turn. It is safe for concurrent use.
type Live struct {
	mu      sync.Mutex
	writes  []Write
	version uint64
}

// NewLive creates an empty accumulator, optionally seeded with writes.
func NewLive(writes ...Write) *Live {
	l := &Live{}
	for _, w := range writes {
		l.Set(w.Path, w.Value)
	}
	return l
}

// Set records a write. A rewrite of a path moves it to the end of the
// mutation order.
func (l *Live) Set(path string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path = spec.JoinPath(spec.SplitPath(path)...)
	for i, w := range l.writes {
		if w.Path == path {
			l.writes = append(l.writes[:i], l.writes[i+1:]...)
			break
		}
	}
	l.writes = append(l.writes, Write{Path: path, Value: spec.CloneValue(value)})
	l.version++
}

// Get returns the live value written at path.
func (l *Live) Get(path string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path = spec.JoinPath(spec.SplitPath(path)...)
	for _, w := range l.writes {
		if w.Path == path {
			return spec.CloneValue(w.Value), true
		}
	}
	return nil, false
}

// Writes returns the recorded writes in mutation order.
func (l *Live) Writes() []Write {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Write, len(l.writes))
	for i, w := range l.writes {
		out[i] = Write{Path: w.Path, Value: spec.CloneValue(w.Value)}
	}
	return out
}

// Len returns the number of mutated paths.
func (l *Live) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.writes)
}

// Version increases on every change and lets callers memoize on it.
func (l *Live) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Reset forgets every write. It is called when a turn completes.
func (l *Live) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.writes) == 0 {
		return
	}
	l.writes = nil
	l.version++
}

// Apply returns a copy of merged with every live write applied in mutation
// order. Paths nobody mutated keep the merged value.
func (l *Live) Apply(merged map[string]any) map[string]any {
	return l.ApplyTracked(merged, nil)
}

// ApplyTracked is Apply that records every live path on tracker.
func (l *Live) ApplyTracked(merged map[string]any, tracker provenance.Tracker) map[string]any {
	out := spec.CloneMap(merged)
	if out == nil {
		out = make(map[string]any)
	}
	if l == nil {
		return out
	}
	for _, w := range l.Writes() {
		previous, _ := spec.Get(out, w.Path)
		out = spec.Set(out, w.Path, w.Value)
		if tracker != nil {
			tracker.Track(w.Path, provenance.Provenance{
				Source:        provenance.SourceLive,
				Value:         w.Value,
				PreviousValue: previous,
				Reason:        "user interaction",
			})
		}
	}
	return out
}
