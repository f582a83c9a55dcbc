// Package tui hosts the network grid in a full-screen terminal view.
//
// The grid renders on a frame tick: mutations from keys, the mouse and the
// capture feed only schedule a render, and each tick flushes the pending
// frame before the view is drawn.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// DefaultInterval is the frame interval used when Config leaves it unset.
const DefaultInterval = 16 * time.Millisecond

// wheelStep is how many rows one wheel notch scrolls.
const wheelStep = 3

// EntriesMsg delivers captured entries to the view.
type EntriesMsg []capture.Entry

type frameMsg time.Time

type feedClosedMsg struct{}

// Config configures a Model.
type Config struct {
	Grid *datagrid.Grid
	// Frames must be the grid's scheduler.
	Frames   *datagrid.ManualFrames
	Interval time.Duration
	// Gutter is the corner width of the grid, drawn left of the columns.
	Gutter  int
	Source  string
	Initial []capture.Entry
	// Entries streams entries while following. Nil means a static view.
	Entries <-chan []capture.Entry
	NoColor bool
	Logger  *slog.Logger
}

// Model is the bubbletea model of the grid view.
type Model struct {
	grid     *datagrid.Grid
	frames   *datagrid.ManualFrames
	interval time.Duration
	gutter   int
	source   string
	entries  <-chan []capture.Entry
	logger   *slog.Logger

	keys   KeyMap
	help   help.Model
	styles styles

	width    int
	height   int
	focus    int
	count    int
	detail   string
	err      error
	dragging bool
}

// New creates the view and feeds cfg.Initial into the grid.
func New(cfg Config) *Model {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		grid:     cfg.Grid,
		frames:   cfg.Frames,
		interval: cfg.Interval,
		gutter:   max(cfg.Gutter, 0),
		source:   cfg.Source,
		entries:  cfg.Entries,
		logger:   cfg.Logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   newStyles(cfg.NoColor),
	}

	m.grid.OnSelectionChanged(func(e datagrid.SelectionEvent) {
		if e.Kind == datagrid.Selected {
			m.detail = describe(e.Node)
		} else {
			m.detail = ""
		}
	})
	m.grid.OnSortChanged(func(s datagrid.SortState) {
		m.logger.Debug("sort changed", "column", s.ColumnID, "direction", s.Direction.String())
	})

	m.feed(cfg.Initial)
	m.grid.Render()
	return m
}

// Count returns the number of requests fed so far, batch sub-requests
// included.
func (m *Model) Count() int { return m.count }

// Err returns the last error shown in the status line.
func (m *Model) Err() error { return m.err }

// Init starts the frame tick and, when following, the feed.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.entries != nil {
		cmds = append(cmds, waitForEntries(m.entries))
	}
	return tea.Batch(cmds...)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func waitForEntries(ch <-chan []capture.Entry) tea.Cmd {
	return func() tea.Msg {
		entries, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return EntriesMsg(entries)
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frames.Flush()
		return m, m.tick()

	case EntriesMsg:
		m.feed(msg)
		if m.entries == nil {
			return m, nil
		}
		return m, waitForEntries(m.entries)

	case feedClosedMsg:
		m.entries = nil
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) feed(entries []capture.Entry) {
	if len(entries) == 0 {
		return
	}
	if err := capture.Feed(m.grid, entries); err != nil {
		m.logger.Error("failed to feed entries", "error", err)
		m.err = err
	}
	for _, e := range entries {
		m.count += e.Count()
	}
}

// bodyHeight is the number of rows left for the grid body.
func (m *Model) bodyHeight() int {
	chrome := 2 + lipgloss.Height(m.help.View(m.keys))
	return max(m.height-chrome, 1)
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.grid.SetViewport(m.width, float64(m.bodyHeight()))
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.logger.Debug("grid operation failed", "error", err)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	g := m.grid

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		if g.Selection().Selected() == nil {
			g.SelectNext()
		} else {
			g.SelectPrevious()
		}

	case key.Matches(msg, m.keys.Down):
		g.SelectNext()

	case key.Matches(msg, m.keys.Collapse):
		sel := g.Selection().Selected()
		if sel == nil {
			break
		}
		if sel.HasChildren() && sel.Expanded() {
			sel.Collapse()
		} else if p := sel.Parent(); p != nil && !p.IsRoot() {
			m.setErr(g.Select(p))
		}

	case key.Matches(msg, m.keys.Expand):
		sel := g.Selection().Selected()
		if sel == nil || !sel.HasChildren() {
			break
		}
		if sel.Expanded() {
			g.SelectNext()
		} else {
			sel.Expand()
		}

	case key.Matches(msg, m.keys.Sort):
		if id, ok := m.focusedColumn(); ok {
			m.setErr(g.OnHeaderClick(id))
		}

	case key.Matches(msg, m.keys.NextColumn):
		m.moveFocus(1)

	case key.Matches(msg, m.keys.PrevColumn):
		m.moveFocus(-1)

	case key.Matches(msg, m.keys.Narrow):
		m.nudge(-1)

	case key.Matches(msg, m.keys.Widen):
		m.nudge(1)

	case key.Matches(msg, m.keys.PageUp):
		g.ScrollBy(-float64(m.bodyHeight()))

	case key.Matches(msg, m.keys.PageDown):
		g.ScrollBy(float64(m.bodyHeight()))

	case key.Matches(msg, m.keys.Bottom):
		g.ScrollToBottom()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}
	return nil
}

func (m *Model) focusedColumn() (string, bool) {
	header := m.grid.Frame().Header
	if m.focus < 0 || m.focus >= len(header) {
		return "", false
	}
	return header[m.focus].ColumnID, true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.grid.Frame().Header)
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

// nudge moves the focused column's right edge by delta cells. The last
// column has no right divider, so its left one moves the other way.
func (m *Model) nudge(delta int) {
	r := m.grid.Resizer()
	dividers := r.DividerPositions()
	if len(dividers) == 0 {
		return
	}
	idx := m.focus
	if idx >= len(dividers) {
		idx = len(dividers) - 1
		delta = -delta
	}
	pos := dividers[idx]
	if err := r.BeginDrag(idx, pos); err != nil {
		m.setErr(err)
		return
	}
	r.Drag(pos + delta)
	m.setErr(r.EndDrag())
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	g := m.grid
	r := g.Resizer()
	x := msg.X - m.gutter

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		g.ScrollBy(-wheelStep)
		return
	case msg.Button == tea.MouseButtonWheelDown:
		g.ScrollBy(wheelStep)
		return
	case m.dragging && msg.Action == tea.MouseActionMotion:
		r.Drag(x)
		return
	case m.dragging && msg.Action == tea.MouseActionRelease:
		m.dragging = false
		m.setErr(r.EndDrag())
		return
	case msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress:
		return
	}

	m.err = nil
	if msg.Y == 0 {
		m.clickHeader(x)
		return
	}
	m.clickRow(msg.Y-1, x)
}

func (m *Model) clickHeader(x int) {
	r := m.grid.Resizer()
	for i, d := range r.DividerPositions() {
		// The divider is drawn in the last cell of the left column.
		if x >= d-2 && x <= d {
			if err := r.BeginDrag(i, x); err != nil {
				m.setErr(err)
				return
			}
			m.dragging = true
			return
		}
	}
	if i, ok := columnAt(m.grid.Frame().Header, x); ok {
		m.focus = i
		id, _ := m.focusedColumn()
		m.setErr(m.grid.OnHeaderClick(id))
	}
}

func (m *Model) clickRow(line, x int) {
	rows := m.grid.Frame().Rows
	if line < 0 || line >= len(rows) {
		return
	}
	row := rows[line]
	n := row.Node()
	if i, ok := columnAt(m.grid.Frame().Header, x); ok && i < len(row.Cells) {
		c := row.Cells[i]
		start := 0
		for _, prev := range row.Cells[:i] {
			start += prev.Width
		}
		if c.Tree && c.Disclosure != "" && x-start == 2*c.Indent {
			if n.Expanded() {
				n.Collapse()
			} else {
				n.Expand()
			}
		}
	}
	m.setErr(m.grid.Select(n))
}

// columnAt finds the visible column under x.
func columnAt(header []datagrid.HeaderCell, x int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	edge := 0
	for i, h := range header {
		edge += h.Width
		if x < edge {
			return i, true
		}
	}
	return 0, false
}

// describe is the status line text of a selected request.
func describe(n *datagrid.Node) string {
	method := n.Text("method")
	url := n.Text("url")
	if url == "" {
		url = n.Text("name")
	}
	status := n.Text("status")
	if st := n.Text("status_text"); st != "" {
		status += " " + st
	}
	return fmt.Sprintf("%s %s  %s", method, url, status)
}
