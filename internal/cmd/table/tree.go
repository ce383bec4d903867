package table

import (
	"strings"

	"github.com/agentstation/uispec/pkg/spec"
)

// TreeToTableData lists the elements of a tree in natural id order.
func TreeToTableData(t *spec.Tree, wide bool) Data {
	headers := []string{"ID", "Type", "Label", "Children"}
	if wide {
		headers = append(headers, "Props", "Repeat")
	}

	var rows [][]string
	for _, id := range t.IDs() {
		el := t.Elements[id]
		display := id
		if id == t.Root {
			display = id + " (root)"
		}
		label, _ := el.Label()
		row := []string{display, el.Type, truncate(label, 40), strings.Join(el.Children, ", ")}
		if wide {
			repeat := "-"
			if el.Repeat != nil {
				repeat = el.Repeat.StatePath
				if el.Repeat.Key != "" {
					repeat += " by " + el.Repeat.Key
				}
			}
			row = append(row, truncate(FormatValue(el.Props), 60), repeat)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// FixesToTableData lists repair findings in execution order.
func FixesToTableData(fixes []spec.Fix) Data {
	rows := make([][]string, 0, len(fixes))
	for _, fix := range fixes {
		rows = append(rows, []string{fix.Pass, fix.Rule, fix.Target, fix.Detail})
	}
	return Data{
		Headers: []string{"Pass", "Rule", "Target", "Detail"},
		Rows:    rows,
	}
}
