package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table is a header plus rows of already formatted cells.
type Table struct {
	Header []string
	Rows   [][]string
	// RightAligned marks columns, by index, whose cells align right.
	RightAligned map[int]bool
}

// Table writes t in the effective mode. JSON mode writes one object per
// row keyed by header.
func (r *Renderer) Table(t Table) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		rows := make([]map[string]string, len(t.Rows))
		for i, row := range t.Rows {
			obj := make(map[string]string, len(t.Header))
			for j, h := range t.Header {
				if j < len(row) {
					obj[h] = row[j]
				}
			}
			rows[i] = obj
		}
		return r.JSON(rows)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		tw.AppendRow(tr)
	}

	var configs []table.ColumnConfig
	for i := range t.Header {
		if t.RightAligned[i] {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	tw.SetColumnConfigs(configs)

	switch mode {
	case ModeMarkdown:
		tw.RenderMarkdown()
	case ModeCSV:
		tw.RenderCSV()
	default:
		tw.Render()
		_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(t.Rows))
	}
	return nil
}
