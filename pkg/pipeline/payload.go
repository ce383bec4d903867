package pipeline

import (
	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
)

// Payload is the serializable view of a Result, as written by the CLI and
// sent by the host.
type Payload struct {
	Outcome    string                  `json:"outcome" yaml:"outcome"`
	Final      bool                    `json:"final,omitempty" yaml:"final,omitempty"`
	Tree       *spec.Tree              `json:"tree" yaml:"tree"`
	Fixes      []spec.Fix              `json:"fixes,omitempty" yaml:"fixes,omitempty"`
	Mapping    map[string]string       `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Changes    differ.ChangesetSummary `json:"changes" yaml:"changes"`
	Provenance provenance.Map          `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	Summary    string                  `json:"summary" yaml:"summary"`
	DurationMS int64                   `json:"duration_ms" yaml:"duration_ms"`
}

// Payload converts the result.
func (r *Result) Payload() Payload {
	payload := Payload{
		Outcome:    r.Outcome.String(),
		Tree:       r.Tree,
		Fixes:      r.Fixes(),
		Mapping:    r.Mapping,
		Provenance: r.Provenance,
		Summary:    r.Summary(),
		DurationMS: r.Metadata.Duration.Milliseconds(),
	}
	if r.Changeset != nil {
		payload.Changes = r.Changeset.Summary
	}
	return payload
}
