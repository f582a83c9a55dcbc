// Package commands implements the netgrid subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/internal/cli/config"
	"github.com/leapstack-labs/netgrid/internal/cli/output"
	"github.com/leapstack-labs/netgrid/internal/state"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Store    state.Store
}

// NewCommandContext creates a CommandContext with an open state store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}
	cmdCtx.Store = store

	cleanup := func() {
		if err := store.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close state store", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that don't touch the state database.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	if cfg.UI.NoColor {
		r.SetColor(false)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root command (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewGrid builds the network grid from the configuration and restores its
// persisted layout. A failing restore is logged and the defaults are kept.
func (c *CommandContext) NewGrid(scheduler datagrid.FrameScheduler) (*datagrid.Grid, error) {
	corner := c.Cfg.UI.CornerWidth
	if corner == 0 {
		corner = -1
	}
	opts := datagrid.Options{
		ID:            c.Cfg.GridID,
		Scheduler:     scheduler,
		CornerWidth:   corner,
		ResizeMethod:  c.Cfg.UI.ResizeMethod,
		StickToBottom: c.Cfg.UI.StickToBottom,
	}
	if c.Store != nil {
		opts.Persistence = c.Store
	}

	g := datagrid.New(opts)
	if err := g.SetColumns(capture.Columns(c.Cfg.Columns)); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	if err := g.RestoreLayout(); err != nil {
		c.Logger.Warn("failed to restore grid layout", "grid", c.Cfg.GridID, "error", err)
	}
	return g, nil
}

// startSession records a capture session. The returned function ends it
// with the final entry count. Bookkeeping failures are logged only.
func (c *CommandContext) startSession(source, command string) func(entries int) {
	if c.Store == nil {
		return func(int) {}
	}
	sess, err := c.Store.CreateSession(source, c.Cfg.GridID, command)
	if err != nil {
		c.Logger.Warn("failed to record session", "error", err)
		return func(int) {}
	}
	c.Logger.Debug("session started", "id", sess.ID, "source", source, "command", command)

	return func(entries int) {
		if err := c.Store.UpdateSessionEntries(sess.ID, entries); err != nil {
			c.Logger.Warn("failed to update session", "id", sess.ID, "error", err)
		}
		if err := c.Store.EndSession(sess.ID); err != nil {
			c.Logger.Warn("failed to end session", "id", sess.ID, "error", err)
		}
	}
}

// countEntries counts entries including batch sub-requests.
func countEntries(entries []capture.Entry) int {
	n := 0
	for _, e := range entries {
		n += e.Count()
	}
	return n
}
