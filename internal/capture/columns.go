package capture

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// ColumnSpec overrides one column of the network grid. Zero fields keep
// the built-in value.
type ColumnSpec struct {
	ID     string  `koanf:"id" yaml:"id"`
	Title  string  `koanf:"title" yaml:"title,omitempty"`
	Weight float64 `koanf:"weight" yaml:"weight,omitempty"`
	Width  int     `koanf:"width" yaml:"width,omitempty"`
	Hidden bool    `koanf:"hidden" yaml:"hidden,omitempty"`
}

// DefaultColumns is the built-in network column set.
func DefaultColumns() []datagrid.Column {
	return []datagrid.Column{
		{ID: "name", Title: "Name", Sortable: true, Disclosure: true, Weight: 3},
		{ID: "method", Title: "Method", Sortable: true, Fixed: true, Width: 7},
		{ID: "status", Title: "Status", Sortable: true, Sort: datagrid.SortNumeric, Align: datagrid.AlignRight, Weight: 0.8},
		{ID: "type", Title: "Type", Sortable: true, Weight: 1},
		{ID: "size", Title: "Size", Sortable: true, Sort: datagrid.SortNumeric, Align: datagrid.AlignRight, Weight: 1, Format: FormatSize},
		{ID: "time", Title: "Time", Sortable: true, Sort: datagrid.SortNumeric, Align: datagrid.AlignRight, Weight: 1, Format: FormatDuration},
		{ID: "url", Title: "URL", Sortable: true, Weight: 4, Hidden: true},
	}
}

// Columns builds the column set from specs. An empty spec list yields the
// defaults. Otherwise the specs pick and order the columns; built-in
// columns keep their sort and formatting, unknown ids become plain text
// columns.
func Columns(specs []ColumnSpec) []datagrid.Column {
	defaults := DefaultColumns()
	if len(specs) == 0 {
		return defaults
	}
	builtin := make(map[string]datagrid.Column, len(defaults))
	for _, c := range defaults {
		builtin[c.ID] = c
	}

	out := make([]datagrid.Column, 0, len(specs))
	for _, s := range specs {
		c, ok := builtin[s.ID]
		if !ok {
			c = datagrid.Column{ID: s.ID, Sortable: true}
		}
		if s.Title != "" {
			c.Title = s.Title
		}
		if s.Weight > 0 {
			c.Weight = s.Weight
		}
		if s.Width > 0 {
			c.Fixed, c.Width = true, s.Width
		}
		c.Hidden = s.Hidden
		out = append(out, c)
	}
	return out
}

// FormatSize renders a byte count.
func FormatSize(v any) string {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return ""
		}
		return humanize.Bytes(uint64(n))
	case int:
		if n < 0 {
			return ""
		}
		return humanize.Bytes(uint64(n))
	case nil:
		return ""
	}
	return datagrid.CellText(v)
}

// FormatDuration renders milliseconds.
func FormatDuration(v any) string {
	ms, ok := v.(float64)
	if !ok {
		return datagrid.CellText(v)
	}
	if ms < 1000 {
		return fmt.Sprintf("%.0f ms", ms)
	}
	return (time.Duration(ms * float64(time.Millisecond))).Round(10 * time.Millisecond).String()
}
