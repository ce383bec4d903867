package differ

import (
	"fmt"
	"strings"

	"github.com/agentstation/uispec/pkg/spec"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`                     // e.g. "props.title" or "/form/name"
	OldValue string     `json:"old_value,omitempty" yaml:"old_value"` // canonical JSON of the previous value
	NewValue string     `json:"new_value,omitempty" yaml:"new_value"` // canonical JSON of the new value
	Type     ChangeType `json:"type" yaml:"type"`
}

// ElementRecord is an element added to or removed from a tree.
type ElementRecord struct {
	ID      string        `json:"id" yaml:"id"`
	Element *spec.Element `json:"element" yaml:"element"`
}

// ElementUpdate represents an update to an element present in both trees.
type ElementUpdate struct {
	ID       string        `json:"id" yaml:"id"`
	Existing *spec.Element `json:"existing" yaml:"existing"`
	New      *spec.Element `json:"new" yaml:"new"`
	Changes  []FieldChange `json:"changes" yaml:"changes"`
}

// ElementChangeset represents changes to elements.
type ElementChangeset struct {
	Added   []ElementRecord `json:"added" yaml:"added"`
	Updated []ElementUpdate `json:"updated" yaml:"updated"`
	Removed []ElementRecord `json:"removed" yaml:"removed"`
}

// Changeset represents all changes between two trees.
type Changeset struct {
	Root     *FieldChange      `json:"root,omitempty" yaml:"root,omitempty"`
	Elements *ElementChangeset `json:"elements" yaml:"elements"`
	State    []FieldChange     `json:"state" yaml:"state"`
	Summary  ChangesetSummary  `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	RootChanged     bool `json:"root_changed" yaml:"root_changed"`
	ElementsAdded   int  `json:"elements_added" yaml:"elements_added"`
	ElementsUpdated int  `json:"elements_updated" yaml:"elements_updated"`
	ElementsRemoved int  `json:"elements_removed" yaml:"elements_removed"`
	StateChanges    int  `json:"state_changes" yaml:"state_changes"`
	TotalChanges    int  `json:"total_changes" yaml:"total_changes"`
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c != nil && c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// HasChanges returns true if the element changeset contains any changes.
func (e *ElementChangeset) HasChanges() bool {
	return len(e.Added) > 0 || len(e.Updated) > 0 || len(e.Removed) > 0
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	s := ChangesetSummary{
		RootChanged:     c.Root != nil,
		ElementsAdded:   len(c.Elements.Added),
		ElementsUpdated: len(c.Elements.Updated),
		ElementsRemoved: len(c.Elements.Removed),
		StateChanges:    len(c.State),
	}
	s.TotalChanges = s.ElementsAdded + s.ElementsUpdated + s.ElementsRemoved + s.StateChanges
	if s.RootChanged {
		s.TotalChanges++
	}
	return s
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if c.Root != nil {
		parts = append(parts, fmt.Sprintf("Root: %s -> %s", c.Root.OldValue, c.Root.NewValue))
	}
	if c.Elements.HasChanges() {
		elementParts := []string{}
		if len(c.Elements.Added) > 0 {
			elementParts = append(elementParts, fmt.Sprintf("%d added", len(c.Elements.Added)))
		}
		if len(c.Elements.Updated) > 0 {
			elementParts = append(elementParts, fmt.Sprintf("%d updated", len(c.Elements.Updated)))
		}
		if len(c.Elements.Removed) > 0 {
			elementParts = append(elementParts, fmt.Sprintf("%d removed", len(c.Elements.Removed)))
		}
		parts = append(parts, fmt.Sprintf("Elements: %s", strings.Join(elementParts, ", ")))
	}
	if len(c.State) > 0 {
		parts = append(parts, fmt.Sprintf("State: %d changed", len(c.State)))
	}
	return strings.Join(parts, "; ")
}

// Print writes a detailed, line-oriented listing of the changeset.
func (c *Changeset) Print() string {
	if c.IsEmpty() {
		return "No changes detected\n"
	}

	var sb strings.Builder
	for _, r := range c.Elements.Added {
		sb.WriteString(fmt.Sprintf("+ %s (%s)\n", r.ID, r.Element.Type))
	}
	for _, u := range c.Elements.Updated {
		sb.WriteString(fmt.Sprintf("~ %s (%s)\n", u.ID, u.New.Type))
		for _, ch := range u.Changes {
			sb.WriteString(fmt.Sprintf("    %s: %s -> %s\n", ch.Path, orNone(ch.OldValue), orNone(ch.NewValue)))
		}
	}
	for _, r := range c.Elements.Removed {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", r.ID, r.Element.Type))
	}
	for _, ch := range c.State {
		sb.WriteString(fmt.Sprintf("state %s: %s -> %s\n", ch.Path, orNone(ch.OldValue), orNone(ch.NewValue)))
	}
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
