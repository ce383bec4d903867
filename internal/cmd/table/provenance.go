package table

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/uispec/pkg/provenance"
)

// ProvenanceToTableData converts provenance history to table format.
// Shows all paths and their history in a single unified table.
func ProvenanceToTableData(m provenance.Map) Data {
	var rows [][]string

	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		history := m[path]
		// newest entry first; entries are recorded in application order
		for i := len(history) - 1; i >= 0; i-- {
			entry := history[i]
			name, current := "", ""
			if i == len(history)-1 {
				name, current = path, "→"
			}
			rows = append(rows, []string{
				name,
				current,
				FormatValue(entry.Value),
				string(entry.Source),
				formatTimestamp(entry.Timestamp),
				entry.Reason,
			})
		}
	}

	return Data{
		Headers: []string{"Path", "Curr", "Value", "Source", "When", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Path
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Source
			AlignLeft,   // When
			AlignLeft,   // Reason
		},
	}
}

// MatchPath checks if a state path matches any of the provided patterns.
// Supports glob matching and "/prefix/*" subtree patterns.
func MatchPath(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if strings.HasPrefix(path, prefix+"/") || path == prefix {
				return true
			}
		}
	}
	return false
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04:05.000")
}
