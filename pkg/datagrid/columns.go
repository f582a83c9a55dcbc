package datagrid

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align is the horizontal alignment of a column's cells.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column configures one column of the grid.
type Column struct {
	ID    string
	Title string

	Sortable bool
	// Sort names a comparator in the grid's registry. Empty means "string".
	Sort string
	// Compare overrides Sort when set.
	Compare ColumnComparator

	// Weight is the share of the flexible width. Zero means 1.
	Weight float64
	// Fixed columns take exactly Width cells and no flexible share.
	Fixed bool
	Width int

	Hidden bool
	// Disclosure marks the column that shows the expand/collapse glyph
	// and the tree indent. At most one column may set it.
	Disclosure bool

	Align  Align
	Format func(any) string
}

var titleCaser = cases.Title(language.English)

// normalizeColumns validates cols and returns a copy with defaults applied.
func normalizeColumns(cols []Column, registry *ComparatorRegistry) ([]Column, error) {
	out := make([]Column, len(cols))
	seen := make(map[string]bool, len(cols))
	disclosure := ""
	for i, c := range cols {
		if strings.TrimSpace(c.ID) == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("column %d has an empty id", i)}
		}
		if seen[c.ID] {
			return nil, &ConfigurationError{Column: c.ID, Reason: "duplicate column id"}
		}
		seen[c.ID] = true
		if c.Disclosure {
			if disclosure != "" {
				return nil, &ConfigurationError{Column: c.ID, Reason: fmt.Sprintf("disclosure already set on %q", disclosure)}
			}
			disclosure = c.ID
		}
		if c.Weight < 0 {
			return nil, &ConfigurationError{Column: c.ID, Reason: "weight must not be negative"}
		}
		if c.Weight == 0 {
			c.Weight = 1
		}
		if c.Fixed && c.Width <= 0 {
			return nil, &ConfigurationError{Column: c.ID, Reason: "fixed column needs a positive width"}
		}
		if c.Sort == "" {
			c.Sort = SortString
		}
		if c.Compare == nil {
			if _, ok := registry.Lookup(c.Sort); !ok {
				return nil, &ConfigurationError{Column: c.ID, Reason: fmt.Sprintf("unknown comparator %q", c.Sort)}
			}
		}
		if c.Title == "" {
			c.Title = titleCaser.String(strings.ReplaceAll(c.ID, "_", " "))
		}
		out[i] = c
	}
	return out, nil
}

// DistributeWidths splits available cells among columns. Hidden columns get
// zero, fixed columns get their Width, and flexible columns share the rest
// in proportion to Weight. Widths come from a truncated running sum, so the
// flexible widths add up to exactly the flexible space. Fixed columns that
// do not fit are clipped left to right, so the total never exceeds
// available.
func DistributeWidths(cols []Column, available int) []int {
	widths := make([]int, len(cols))
	flex := max(available, 0)
	var weightSum float64
	lastFlex := -1
	for i, c := range cols {
		switch {
		case c.Hidden:
		case c.Fixed:
			widths[i] = min(max(c.Width, 0), flex)
			flex -= widths[i]
		default:
			weightSum += c.Weight
			lastFlex = i
		}
	}
	if lastFlex < 0 || weightSum <= 0 {
		return widths
	}

	var cum float64
	prev := 0
	for i, c := range cols {
		if c.Hidden || c.Fixed {
			continue
		}
		cum += c.Weight
		cur := int(cum * float64(flex) / weightSum)
		if i == lastFlex {
			cur = flex
		}
		widths[i] = cur - prev
		prev = cur
	}
	return widths
}
