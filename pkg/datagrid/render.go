package datagrid

import "strings"

// Disclosure glyphs for expandable rows.
const (
	GlyphCollapsed = "▶"
	GlyphExpanded  = "▼"
)

// Sort indicator glyphs for header cells.
const (
	GlyphAscending  = "▲"
	GlyphDescending = "▼"
)

// Cell is one materialized cell of a row.
type Cell struct {
	ColumnID string
	Text     string
	Width    int
	Align    Align
	// Tree marks the disclosure column. Indent and Disclosure are only
	// set there.
	Tree       bool
	Indent     int
	Disclosure string
}

// Label is the cell text as a text host shows it: tree cells are indented
// two cells per level and lead with the disclosure glyph, or a space for
// leaves.
func (c Cell) Label() string {
	if !c.Tree {
		return c.Text
	}
	glyph := c.Disclosure
	if glyph == "" {
		glyph = " "
	}
	return strings.Repeat("  ", c.Indent) + glyph + " " + c.Text
}

// Row is the render handle of a node. It is created the first time the
// node scrolls into view and reused while the node stays in the tree.
type Row struct {
	node           *Node
	attached       bool
	columnsVersion uint64
	Cells          []Cell
}

func (r *Row) Node() *Node { return r.node }
func (r *Row) Attached() bool { return r.attached }
func (r *Row) Selected() bool { return r.node.selected }
func (r *Row) Depth() int { return r.node.Depth() }
func (r *Row) Expanded() bool { return r.node.expanded }
func (r *Row) Expandable() bool { return r.node.hasChildren }

// HeaderCell is one materialized header cell.
type HeaderCell struct {
	ColumnID      string
	Title         string
	Width         int
	Align         Align
	Sortable      bool
	SortIndicator string
}

// RenderStats counts how a render reconciled rows.
type RenderStats struct {
	Attached int
	Detached int
	Kept     int
	Rebuilt  int
}

// Frame is everything a host needs to draw the grid.
type Frame struct {
	Header        []HeaderCell
	Rows          []*Row
	TopPadding    float64
	BottomPadding float64
	// Offset is the flattened index of Rows[0].
	Offset      int
	TotalRows   int
	TotalHeight float64
	ScrollTop   float64
	AtBottom    bool
	Stats       RenderStats
}

// Frame returns the result of the last render.
func (g *Grid) Frame() Frame { return g.frame }

// NeedsRender reports whether a mutation happened since the last render.
func (g *Grid) NeedsRender() bool { return g.needsRender }

// scheduleRender marks the grid stale and asks the scheduler for a frame
// unless one is already pending.
func (g *Grid) scheduleRender(fromUser bool) {
	g.needsRender = true
	g.renderFromUser = g.renderFromUser || fromUser
	if g.renderScheduled {
		return
	}
	g.renderScheduled = true
	g.opts.Scheduler.RequestFrame(g.onFrame)
}

func (g *Grid) onFrame() {
	g.renderScheduled = false
	if !g.needsRender {
		return
	}
	g.Render()
}

// Render windows the flattened rows, reconciles render handles with the
// visible slice and returns the frame. Calling it again without a
// mutation yields the same frame.
func (g *Grid) Render() Frame {
	fromUser := g.renderFromUser
	g.needsRender = false
	g.renderFromUser = false

	flat := g.root.Flatten()
	total := TotalHeight(flat, g.opts.RowHeight)
	if g.clientHeight > 0 {
		if g.opts.StickToBottom && g.atBottom && !fromUser {
			g.scrollTop = total - g.clientHeight
		}
		g.scrollTop = ClampScrollTop(g.scrollTop, total, g.clientHeight)
		g.atBottom = g.scrollTop >= total-g.clientHeight
	} else {
		g.scrollTop = 0
		g.atBottom = true
	}

	vp := ComputeVisible(flat, g.opts.RowHeight, g.clientHeight, g.scrollTop)
	stats := g.reconcile(vp.Visible)

	rows := make([]*Row, len(vp.Visible))
	for i, n := range vp.Visible {
		rows[i] = n.row
	}

	prev := g.frame
	g.frame = Frame{
		Header:        g.header(),
		Rows:          rows,
		TopPadding:    vp.TopPadding,
		BottomPadding: vp.BottomPadding,
		Offset:        vp.Offset,
		TotalRows:     len(flat),
		TotalHeight:   total,
		ScrollTop:     g.scrollTop,
		AtBottom:      g.atBottom,
		Stats:         stats,
	}
	if prev.TopPadding != vp.TopPadding || prev.BottomPadding != vp.BottomPadding {
		g.onPadding.emit(PaddingEvent{Top: vp.TopPadding, Bottom: vp.BottomPadding})
	}
	return g.frame
}

// reconcile detaches rows that left the window, attaches rows that entered
// and rebuilds the cells of rows whose content or layout changed.
func (g *Grid) reconcile(visible []*Node) RenderStats {
	var stats RenderStats
	inView := make(map[*Node]struct{}, len(visible))
	for _, n := range visible {
		inView[n] = struct{}{}
	}
	for _, n := range g.visible {
		if _, ok := inView[n]; ok || n.row == nil {
			continue
		}
		if n.row.attached {
			n.row.attached = false
			stats.Detached++
		}
	}
	for _, n := range visible {
		if n.row == nil {
			n.row = &Row{node: n}
		}
		if n.row.attached {
			stats.Kept++
		} else {
			n.row.attached = true
			stats.Attached++
		}
		if n.dirty || n.row.columnsVersion != g.columnsVersion || n.row.Cells == nil {
			g.buildCells(n)
			stats.Rebuilt++
		}
	}
	g.visible = append(g.visible[:0], visible...)
	return stats
}

func (g *Grid) buildCells(n *Node) {
	cells := n.row.Cells[:0]
	for i, c := range g.columns {
		if c.Hidden {
			continue
		}
		cell := Cell{ColumnID: c.ID, Text: n.Text(c.ID), Align: c.Align}
		if i < len(g.widths) {
			cell.Width = g.widths[i]
		}
		if c.Disclosure {
			cell.Tree = true
			cell.Indent = n.Depth() - 1
			if n.hasChildren {
				cell.Disclosure = GlyphCollapsed
				if n.expanded {
					cell.Disclosure = GlyphExpanded
				}
			}
		}
		cells = append(cells, cell)
	}
	n.row.Cells = cells
	n.row.columnsVersion = g.columnsVersion
	n.dirty = false
}

func (g *Grid) header() []HeaderCell {
	out := make([]HeaderCell, 0, len(g.columns))
	for i, c := range g.columns {
		if c.Hidden {
			continue
		}
		h := HeaderCell{ColumnID: c.ID, Title: c.Title, Align: c.Align, Sortable: c.Sortable}
		if i < len(g.widths) {
			h.Width = g.widths[i]
		}
		if g.sort.ColumnID == c.ID {
			switch g.sort.Direction {
			case Ascending:
				h.SortIndicator = GlyphAscending
			case Descending:
				h.SortIndicator = GlyphDescending
			}
		}
		out = append(out, h)
	}
	return out
}

// forgetRow drops a removed node from the materialized set.
func (g *Grid) forgetRow(n *Node) {
	if n.row != nil && n.row.attached {
		n.row.attached = false
	}
}

// CellString pads or truncates text to width cells, honoring alignment.
// Width is measured in runes.
func CellString(text string, width int, align Align) string {
	if width <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) > width {
		if width == 1 {
			return "…"
		}
		return string(r[:width-1]) + "…"
	}
	pad := width - len(r)
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + text
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	default:
		return text + strings.Repeat(" ", pad)
	}
}
