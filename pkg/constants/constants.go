// Package constants provides shared constants used throughout the uispec codebase.
// This includes cache settings, file permissions, server timeouts and the
// naming conventions the repairer recognizes in generated element ids.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for memoized pipeline results
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Server constants
const (
	// DefaultServerAddr is the listen address of the websocket host
	DefaultServerAddr = "127.0.0.1:8787"

	// WriteWait is the time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// MaxMessageSize is the largest snapshot message accepted from a peer (4 MiB)
	MaxMessageSize = 4 << 20

	// ShutdownTimeout bounds graceful shutdown of the host
	ShutdownTimeout = 5 * time.Second
)

// Id naming conventions used by the repairer.
var (
	// ReferenceSuffixes are appended by generators to an id that a parent
	// already referenced without the suffix.
	ReferenceSuffixes = []string{"-container", "-inner", "-wrapper", "-content", "-section"}

	// TabGroupSuffixes mark a referenced id as a tab group.
	TabGroupSuffixes = []string{"-tab-group", "-tabs"}

	// WrapperSuffixes mark a referenced id as a container for elements sharing its prefix.
	WrapperSuffixes = []string{"-card", "-wrapper", "-container", "-section", "-group", "-panel", "-box"}
)
