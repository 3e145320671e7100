package snapshot

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	// ErrNotFound means no snapshot was ever saved for the scope.
	ErrNotFound = errors.New("snapshot not found")
	// ErrUnreadable means a snapshot exists but cannot be read or parsed.
	// Callers degrade this to "no previous snapshot" rather than failing.
	ErrUnreadable = errors.New("snapshot unreadable")
)
