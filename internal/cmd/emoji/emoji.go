// Package emoji provides the status symbols printed by uispec commands.
package emoji

// Status symbols.
const (
	// Success marks a snapshot that needed no fixes or a clean stop.
	Success = "✓"

	// Error marks a snapshot that produced no tree.
	Error = "✗"

	// Warning marks a snapshot that was repaired.
	Warning = "!"
)
