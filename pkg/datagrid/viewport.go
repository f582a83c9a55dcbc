package datagrid

// HeightFunc reports the rendered height of a row.
type HeightFunc func(*Node) float64

// UniformHeight returns a HeightFunc that gives every row height h.
func UniformHeight(h float64) HeightFunc {
	return func(*Node) float64 { return h }
}

// Viewport is the slice of the flattened rows that must be materialized,
// plus the space taken by the rows above and below it.
type Viewport struct {
	TopPadding    float64
	BottomPadding float64
	Visible       []*Node
	// Offset is the index of Visible[0] in the flattened sequence.
	Offset int
}

// TotalHeight sums the heights of nodes.
func TotalHeight(nodes []*Node, height HeightFunc) float64 {
	var total float64
	for _, n := range nodes {
		total += height(n)
	}
	return total
}

// ClampScrollTop limits scrollTop to [0, totalHeight-clientHeight].
func ClampScrollTop(scrollTop, totalHeight, clientHeight float64) float64 {
	maxTop := max(totalHeight-clientHeight, 0)
	return min(max(scrollTop, 0), maxTop)
}

// ComputeVisible walks nodes once. Rows that end at or above scrollTop
// become top padding; rows that start before scrollTop+clientHeight are
// visible; the rest become bottom padding. A clientHeight of zero or less
// means the container cannot be measured and every row is visible.
//
// ComputeVisible does not clamp scrollTop. A value past the end windows
// past the end: with scrollTop at or beyond the total height no row is
// visible and every row is top padding. Callers that take scroll positions
// from outside clamp first with ClampScrollTop, as Grid.Render does on
// every render.
func ComputeVisible(nodes []*Node, height HeightFunc, clientHeight, scrollTop float64) Viewport {
	if clientHeight <= 0 {
		return Viewport{Visible: nodes}
	}

	var y float64
	i := 0
	for ; i < len(nodes); i++ {
		h := height(nodes[i])
		if y+h > scrollTop {
			break
		}
		y += h
	}
	vp := Viewport{TopPadding: y, Offset: i}

	bottom := scrollTop + clientHeight
	start := i
	for ; i < len(nodes) && y < bottom; i++ {
		y += height(nodes[i])
	}
	vp.Visible = nodes[start:i]

	for ; i < len(nodes); i++ {
		vp.BottomPadding += height(nodes[i])
	}
	return vp
}
