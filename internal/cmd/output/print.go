package output

import (
	"io"
)

// Print writes raw as JSON or YAML, or tableData for the table formats.
// This encapsulates the switch logic every command shares.
func Print(w io.Writer, format Format, tableData Data, raw any) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, raw)
	default:
		return formatter.Format(w, tableData)
	}
}

// Resolve validates an explicit format and falls back to terminal
// detection when it is empty.
func Resolve(explicit string) (Format, error) {
	format, err := ParseFormat(explicit)
	if err != nil {
		return "", err
	}
	if format == "" {
		return DetectFormat(""), nil
	}
	return format, nil
}
