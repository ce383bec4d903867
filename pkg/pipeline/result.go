package pipeline

import (
	"fmt"
	"time"

	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
)

// Outcome names how a run produced its tree.
type Outcome string

const (
	// OutcomeFresh means the new snapshot was used without a previous tree.
	OutcomeFresh Outcome = "fresh"
	// OutcomeReconciled means the new snapshot was reconciled with the previous tree.
	OutcomeReconciled Outcome = "reconciled"
	// OutcomeFallback means the new snapshot had no tree and the previous tree was kept.
	OutcomeFallback Outcome = "fallback"
	// OutcomeNone means there was nothing to render.
	OutcomeNone Outcome = "none"
)

// String returns the outcome name.
func (o Outcome) String() string {
	return string(o)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Outcome Outcome
	Tree    *spec.Tree

	// Reports holds the report of every pass in execution order.
	Reports []*spec.Report

	// Mapping maps new snapshot ids to output ids. It is set when reconciled.
	Mapping map[string]string

	// Changeset compares the output with the previous tree.
	Changeset *differ.Changeset

	// Provenance of the output state, when tracking is enabled.
	Provenance provenance.Map

	Metadata ResultMetadata
}

// ResultMetadata contains timing of a run.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewResult creates a result with the none outcome.
func NewResult() *Result {
	return &Result{
		Outcome: OutcomeNone,
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

// HasTree reports whether the run produced a tree.
func (r *Result) HasTree() bool {
	return r != nil && r.Tree != nil
}

// Fixes returns every fix of every pass in execution order.
func (r *Result) Fixes() []spec.Fix {
	var fixes []spec.Fix
	for _, report := range r.Reports {
		if report != nil {
			fixes = append(fixes, report.Fixes...)
		}
	}
	return fixes
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if !r.HasTree() {
		return "No tree"
	}
	changes := "No changes detected."
	if r.Changeset != nil && r.Changeset.HasChanges() {
		changes = r.Changeset.String()
	}
	return fmt.Sprintf("%s: %d elements, %d fixes. %s",
		r.Outcome, len(r.Tree.Elements), len(r.Fixes()), changes)
}
