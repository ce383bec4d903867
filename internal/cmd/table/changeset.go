package table

import (
	"fmt"

	"github.com/agentstation/uispec/pkg/differ"
)

// ChangesetToTableData flattens a changeset into one row per change.
func ChangesetToTableData(c *differ.Changeset) Data {
	var rows [][]string
	if c == nil {
		return Data{Headers: changesetHeaders}
	}
	if c.Root != nil {
		rows = append(rows, []string{"root", string(c.Root.Type), "root", c.Root.OldValue, c.Root.NewValue})
	}
	if c.Elements != nil {
		for _, added := range c.Elements.Added {
			rows = append(rows, []string{added.ID, string(differ.ChangeTypeAdd), "", "", added.Element.Type})
		}
		for _, update := range c.Elements.Updated {
			for _, change := range update.Changes {
				rows = append(rows, []string{
					update.ID, string(change.Type), change.Path,
					truncate(change.OldValue, 40), truncate(change.NewValue, 40),
				})
			}
		}
		for _, removed := range c.Elements.Removed {
			rows = append(rows, []string{removed.ID, string(differ.ChangeTypeRemove), "", removed.Element.Type, ""})
		}
	}
	for _, change := range c.State {
		rows = append(rows, []string{
			"state", string(change.Type), change.Path,
			truncate(change.OldValue, 40), truncate(change.NewValue, 40),
		})
	}
	return Data{
		Headers: changesetHeaders,
		Rows:    rows,
	}
}

var changesetHeaders = []string{"Element", "Change", "Path", "Old", "New"}

// SummaryLine describes a changeset summary in one line.
func SummaryLine(s differ.ChangesetSummary) string {
	return fmt.Sprintf("%d added, %d updated, %d removed, %d state changes",
		s.ElementsAdded, s.ElementsUpdated, s.ElementsRemoved, s.StateChanges)
}
