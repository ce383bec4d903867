package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	// Core data
	Tree      *spec.Tree
	Changeset *differ.Changeset

	// Mapping maps every id of the new tree to its id in Tree.
	Mapping map[string]string

	// Replaced is set when the root types differed and the new tree was
	// taken verbatim.
	Replaced bool

	// Metadata
	Metadata ResultMetadata

	// Provenance of the merged state, when tracking is enabled
	Provenance provenance.Map
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Weights   Weights
	Stats     ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	Matched int // new elements that kept a previous identity
	Fresh   int // new elements with fresh identity
	Renamed int // fresh elements renamed to avoid a collision
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Mapping:    make(map[string]string),
		Provenance: make(provenance.Map),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// Finalize stamps the end time and duration.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// HasChanges returns true if the output differs from the previous tree.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.Replaced {
		return fmt.Sprintf("Root type changed; replaced with %d fresh elements", r.Metadata.Stats.Fresh)
	}
	changes := "No changes detected."
	if r.HasChanges() {
		changes = r.Changeset.String()
	}
	return fmt.Sprintf("Matched %d, fresh %d. %s", r.Metadata.Stats.Matched, r.Metadata.Stats.Fresh, changes)
}
