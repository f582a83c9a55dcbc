package commands

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/internal/tui"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/spf13/cobra"
)

// ViewOptions holds options for the view command.
type ViewOptions struct {
	Follow bool
}

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view <capture.jsonl>",
		Short: "Browse a capture in the terminal",
		Long: `Open a capture file in a full-screen network grid.

Rows are requests; $batch requests expand into their sub-requests.
Columns sort on click or with 's', and divide lines drag to resize.
With --follow the grid keeps reading the file as it grows and stays
pinned to the newest request until you scroll away.

Press ? inside the view for all key bindings.`,
		Example: `  # Browse a finished capture
  netgrid view capture.jsonl

  # Watch a capture that is still being recorded
  netgrid view capture.jsonl --follow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Keep reading the capture as it grows")
	cmd.Flags().Duration("frame-interval", 0, "Time between rendered frames")
	cmd.Flags().Bool("stick-to-bottom", true, "Pin the view to the newest request while at the bottom")
	cmd.Flags().String("resize-method", "", "Column resize method (nearest|first|last)")

	_ = cmd.RegisterFlagCompletionFunc("resize-method", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"nearest", "first", "last"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runView(cmd *cobra.Command, path string, opts *ViewOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	frames := &datagrid.ManualFrames{}
	g, err := cmdCtx.NewGrid(frames)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := tui.Config{
		Grid:     g,
		Frames:   frames,
		Interval: cmdCtx.Cfg.UI.FrameInterval,
		Gutter:   max(cmdCtx.Cfg.UI.CornerWidth, 0),
		Source:   filepath.Base(path),
		NoColor:  cmdCtx.Cfg.UI.NoColor,
		Logger:   cmdCtx.Logger,
	}

	var followed chan error
	if opts.Follow {
		ch := make(chan []capture.Entry, 16)
		followed = make(chan error, 1)
		tailer := capture.NewTailer(path, cmdCtx.Logger)
		go func() {
			followed <- tailer.Follow(ctx, ch)
			close(ch)
		}()
		cfg.Entries = ch
	} else {
		entries, err := capture.ReadFile(path)
		if err != nil {
			return err
		}
		cfg.Initial = entries
	}

	end := cmdCtx.startSession(path, "view")
	m := tui.New(cfg)
	defer func() { end(m.Count()) }()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	start := time.Now()
	_, err = p.Run()
	cancel()

	if followed != nil {
		if ferr := <-followed; ferr != nil {
			cmdCtx.Logger.Warn("follow stopped", "path", path, "error", ferr)
		}
	}
	cmdCtx.Logger.Debug("view closed", "path", path, "requests", m.Count(), "elapsed", time.Since(start))
	return err
}
