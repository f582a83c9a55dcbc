package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leapstack-labs/netgrid/internal/cli/output"
	"github.com/leapstack-labs/netgrid/internal/state"
	"github.com/spf13/cobra"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List past capture sessions",
		Long: `List the captures netgrid has viewed, dumped or served, newest first.

Use --output to override: auto, text, markdown, json, csv`,
		Example: `  # Show the last 10 sessions
  netgrid sessions --limit 10

  # Sessions as JSON
  netgrid sessions -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSessions(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions (0 for all)")

	return cmd
}

// sessionJSON is the JSON shape of a session.
type sessionJSON struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	GridID    string     `json:"grid_id"`
	Command   string     `json:"command"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Entries   int        `json:"entries"`
}

func runSessions(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sessions, err := cmdCtx.Store.ListSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]sessionJSON, len(sessions))
		for i, s := range sessions {
			out[i] = sessionJSON{
				ID:        s.ID,
				Source:    s.Source,
				GridID:    s.GridID,
				Command:   s.Command,
				StartedAt: s.StartedAt,
				EndedAt:   s.EndedAt,
				Entries:   s.Entries,
			}
		}
		return r.JSON(out)
	}

	if len(sessions) == 0 {
		r.Println("No sessions recorded.")
		return nil
	}

	t := output.Table{
		Header:       []string{"Started", "Command", "Source", "Entries", "Duration"},
		RightAligned: map[int]bool{3: true, 4: true},
	}
	for _, s := range sessions {
		t.Rows = append(t.Rows, []string{
			humanize.Time(s.StartedAt),
			s.Command,
			s.Source,
			strconv.Itoa(s.Entries),
			sessionDuration(s),
		})
	}
	return r.Table(t)
}

func sessionDuration(s *state.Session) string {
	if s.EndedAt == nil {
		return "running"
	}
	return s.Duration().Round(time.Millisecond).String()
}
