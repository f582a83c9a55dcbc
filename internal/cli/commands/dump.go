package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/internal/cli/output"
	"github.com/leapstack-labs/netgrid/internal/state"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/spf13/cobra"
)

// DumpOptions holds options for the dump command.
type DumpOptions struct {
	Sort   string
	Expand bool
	Save   bool
}

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump <capture.jsonl>",
		Short: "Print a capture as a table",
		Long: `Load a capture file into the network grid and print every revealed row.

The saved column layout and sort of the grid are applied first; --sort
overrides the sort for this run only unless --save is given.

Output adapts to environment:
  - Terminal: Table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json, csv`,
		Example: `  # Print the capture sorted by status, slowest batches expanded
  netgrid dump capture.jsonl --sort status:desc --expand

  # Export as CSV
  netgrid dump capture.jsonl -o csv > requests.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by column, as column[:asc|desc]")
	cmd.Flags().BoolVar(&opts.Expand, "expand", false, "Expand every batch row")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Remember --sort for the grid")

	return cmd
}

func runDump(cmd *cobra.Command, path string, opts *DumpOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := capture.ReadFile(path)
	if err != nil {
		return err
	}
	end := cmdCtx.startSession(path, "dump")
	defer func() { end(countEntries(entries)) }()

	if !opts.Save {
		cmdCtx.Store = readOnlyStore{cmdCtx.Store}
	}
	g, err := cmdCtx.NewGrid(nil)
	if err != nil {
		return err
	}

	if opts.Sort != "" {
		s, err := ParseSort(opts.Sort)
		if err != nil {
			return err
		}
		if err := g.SetSort(s); err != nil {
			return fmt.Errorf("failed to sort: %w", err)
		}
	}
	if err := capture.Feed(g, entries); err != nil {
		return err
	}
	if opts.Expand {
		g.Root().ExpandRecursively()
	}

	return renderDump(cmdCtx.Renderer, g.Render())
}

// ParseSort parses column[:asc|desc].
func ParseSort(s string) (datagrid.SortState, error) {
	col, dir, _ := strings.Cut(s, ":")
	if col == "" {
		return datagrid.SortState{}, fmt.Errorf("invalid sort %q: missing column", s)
	}
	d, err := datagrid.ParseDirection(strings.ToLower(dir))
	if err != nil {
		return datagrid.SortState{}, fmt.Errorf("invalid sort %q: %w", s, err)
	}
	return datagrid.SortState{ColumnID: col, Direction: d}, nil
}

func renderDump(r *output.Renderer, frame datagrid.Frame) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(dumpJSON(frame))
	}

	t := output.Table{RightAligned: map[int]bool{}}
	for i, h := range frame.Header {
		title := h.Title
		if h.SortIndicator != "" {
			title += " " + h.SortIndicator
		}
		t.Header = append(t.Header, title)
		if h.Align == datagrid.AlignRight {
			t.RightAligned[i] = true
		}
	}
	for _, row := range frame.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Label()
		}
		t.Rows = append(t.Rows, cells)
	}
	return r.Table(t)
}

func dumpJSON(frame datagrid.Frame) []map[string]any {
	rows := make([]map[string]any, len(frame.Rows))
	for i, row := range frame.Rows {
		obj := map[string]any{"depth": row.Depth() - 1}
		if row.Expandable() {
			obj["expanded"] = row.Expanded()
		}
		for _, c := range row.Cells {
			obj[c.ColumnID] = c.Text
		}
		rows[i] = obj
	}
	return rows
}

// readOnlyStore restores layouts but never writes them.
type readOnlyStore struct {
	state.Store
}

func (readOnlyStore) SaveLayout(string, datagrid.Layout) error { return nil }
