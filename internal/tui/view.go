package tui

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

const dividerGlyph = "│"

// View draws the last rendered frame.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	frame := m.grid.Frame()

	var b strings.Builder
	b.WriteString(m.headerLine(frame.Header))
	b.WriteByte('\n')

	body := m.bodyHeight()
	for i := range body {
		if i < len(frame.Rows) {
			b.WriteString(m.rowLine(frame.Rows[i]))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine(frame))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) headerLine(header []datagrid.HeaderCell) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", m.gutter))
	for i, h := range header {
		if h.Width <= 0 {
			continue
		}
		title := h.Title
		if h.SortIndicator != "" {
			title += " " + h.SortIndicator
		}
		style := m.styles.header
		if i == m.focus {
			style = m.styles.focused
		}
		b.WriteString(style.Render(datagrid.CellString(title, h.Width-1, h.Align)))
		b.WriteString(m.styles.divider.Render(dividerGlyph))
	}
	return b.String()
}

func (m *Model) rowLine(row *datagrid.Row) string {
	selected := row.Selected()

	var b strings.Builder
	if m.gutter > 0 {
		marker := " "
		if selected {
			marker = "▌"
		}
		b.WriteString(marker + strings.Repeat(" ", m.gutter-1))
	}

	var cells strings.Builder
	for _, c := range row.Cells {
		if c.Width <= 0 {
			continue
		}
		text := datagrid.CellString(c.Label(), c.Width-1, c.Align)
		if c.ColumnID == "status" && !selected {
			if code, ok := row.Node().Value("status").(int); ok {
				if style, ok := m.styles.forStatus(code); ok {
					text = style.Render(text)
				}
			}
		}
		cells.WriteString(text)
		cells.WriteByte(' ')
	}

	if selected {
		b.WriteString(m.styles.selected.Render(cells.String()))
	} else {
		b.WriteString(cells.String())
	}
	return b.String()
}

func (m *Model) statusLine(frame datagrid.Frame) string {
	parts := []string{m.source, fmt.Sprintf("%d requests", m.count), fmt.Sprintf("%d rows", frame.TotalRows)}
	if s := m.grid.Sort(); s.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.ColumnID, s.Direction))
	}
	if m.entries != nil {
		if frame.AtBottom {
			parts = append(parts, "following")
		} else {
			parts = append(parts, "paused (G to follow)")
		}
	}
	if m.detail != "" {
		parts = append(parts, m.detail)
	}
	line := m.styles.status.Render(strings.Join(parts, " · "))
	if m.err != nil {
		line += "  " + m.styles.err.Render(m.err.Error())
	}
	return line
}
