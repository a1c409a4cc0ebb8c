package tui

import "time"

// MsgTick fires once a second to expire toasts.
type MsgTick struct {
	Time time.Time
}

// MsgReload asks the dashboard to reload its repository, typically after
// the watcher saw the catalog change on disk.
// An empty Path reloads the session's current repository.
type MsgReload struct {
	Path  string
	Files []string
}
