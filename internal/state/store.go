// Package state persists what netgrid remembers between runs: column
// weights and sort per grid, and the history of capture sessions.
package state

import (
	"time"

	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// Session is one viewing of a capture.
type Session struct {
	ID        string
	Source    string
	GridID    string
	Command   string
	StartedAt time.Time
	EndedAt   *time.Time
	Entries   int
}

// Duration is how long the session ran, or has been running.
func (s Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Store is the state persistence surface the commands use.
type Store interface {
	datagrid.Persistence

	CreateSession(source, gridID, command string) (*Session, error)
	UpdateSessionEntries(id string, entries int) error
	EndSession(id string) error
	ListSessions(limit int) ([]*Session, error)

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
