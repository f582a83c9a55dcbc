package commands

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/internal/web"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <capture.jsonl>",
		Short: "Browse a capture in the browser",
		Long: `Start a local web server showing a capture in the network grid.

Every open page shares one grid: sorting, selection and expansion made in
one browser show up in all of them. With --watch the capture is followed
and new requests are pushed to the page as they are written.`,
		Example: `  # Serve on the default port
  netgrid serve capture.jsonl

  # Follow a live capture on port 9000
  netgrid serve capture.jsonl --watch --port 9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0])
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on")
	cmd.Flags().BoolP("watch", "w", false, "Follow the capture as it grows")

	return cmd
}

func runServe(cmd *cobra.Command, path string) error {
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

	cfg := web.Config{
		Grid:   g,
		Frames: frames,
		Port:   cmdCtx.Cfg.Serve.Port,
		Title:  filepath.Base(path),
		Logger: cmdCtx.Logger,
	}

	var initial []capture.Entry
	if cmdCtx.Cfg.Serve.Watch {
		cfg.Tailer = capture.NewTailer(path, cmdCtx.Logger)
	} else if initial, err = capture.ReadFile(path); err != nil {
		return err
	}

	srv := web.NewServer(cfg)
	if err := srv.Feed(initial); err != nil {
		return err
	}

	end := cmdCtx.startSession(path, "serve")
	defer func() { end(srv.Count()) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Println(cmdCtx.Renderer.Muted("Press Ctrl+C to stop"))
	return srv.Serve(ctx)
}
