package datagrid

// ResizeMethod picks the pair of columns a divider drag trades width
// between.
type ResizeMethod int

const (
	// ResizeNearest trades between the columns on either side of the divider.
	ResizeNearest ResizeMethod = iota
	// ResizeFirst trades between the first column and the column right of
	// the divider.
	ResizeFirst
	// ResizeLast trades between the column left of the divider and the last
	// column.
	ResizeLast
)

func (m ResizeMethod) String() string {
	switch m {
	case ResizeFirst:
		return "first"
	case ResizeLast:
		return "last"
	default:
		return "nearest"
	}
}

// ParseResizeMethod accepts nearest, first and last.
func ParseResizeMethod(s string) (ResizeMethod, error) {
	switch s {
	case "", "nearest":
		return ResizeNearest, nil
	case "first":
		return ResizeFirst, nil
	case "last":
		return ResizeLast, nil
	}
	return ResizeNearest, &InvalidParameterError{Name: "resize_method", Value: s, Reason: "expected nearest, first or last"}
}

func (m ResizeMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ResizeMethod) UnmarshalText(b []byte) error {
	v, err := ParseResizeMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ResizeController turns divider drags into column weights.
type ResizeController struct {
	grid    *Grid
	padding int
	method  ResizeMethod

	dragging  bool
	left      int
	right     int
	leftEdge  int
	rightEdge int
	weightSum float64
	grab      int
	position  int
}

// Dragging reports whether a drag is in progress.
func (r *ResizeController) Dragging() bool { return r.dragging }

// Position is the divider position of the current or last drag.
func (r *ResizeController) Position() int { return r.position }

// DividerPositions returns the x offset of every divider between visible
// columns, measured from the left edge of the grid.
func (r *ResizeController) DividerPositions() []int {
	vis := r.grid.visibleColumns()
	if len(vis) < 2 {
		return nil
	}
	out := make([]int, 0, len(vis)-1)
	x := 0
	for _, i := range vis[:len(vis)-1] {
		x += r.grid.widths[i]
		out = append(out, x)
	}
	return out
}

// BeginDrag starts dragging divider index, the one between visible columns
// index and index+1. x is the pointer position; later Drag positions are
// taken relative to it, so grabbing the divider off-center does not make
// it jump.
func (r *ResizeController) BeginDrag(index, x int) error {
	vis := r.grid.visibleColumns()
	if index < 0 || index >= len(vis)-1 {
		return &InvalidParameterError{Name: "index", Value: index, Reason: "no such divider"}
	}
	left, right := index, index+1
	switch r.method {
	case ResizeFirst:
		left = 0
	case ResizeLast:
		right = len(vis) - 1
	}
	lc, rc := vis[left], vis[right]
	cols := r.grid.columns
	if cols[lc].Fixed || cols[rc].Fixed {
		return &InvalidParameterError{Name: "index", Value: index, Reason: "fixed-width columns cannot be resized"}
	}

	divider := r.DividerPositions()[index]
	r.left, r.right = lc, rc
	r.leftEdge = divider - r.grid.widths[lc]
	r.rightEdge = divider + r.grid.widths[rc]
	r.weightSum = cols[lc].Weight + cols[rc].Weight
	r.grab = x - divider
	r.position = divider
	r.dragging = true
	return nil
}

// Drag moves the pointer to x. The divider follows, clamped so neither
// column gets narrower than the resize padding, and its new position is
// returned. Only the two columns of the drag change weight.
func (r *ResizeController) Drag(x int) int {
	if !r.dragging {
		return r.position
	}
	x -= r.grab
	lo, hi := r.leftEdge+r.padding, r.rightEdge-r.padding
	if lo > hi {
		x = (r.leftEdge + r.rightEdge) / 2
	} else {
		x = min(max(x, lo), hi)
	}
	span := r.rightEdge - r.leftEdge
	leftWeight := float64(x-r.leftEdge) * r.weightSum / float64(max(span, 1))
	if span <= 0 || leftWeight <= 0 || leftWeight >= r.weightSum {
		return r.position
	}
	g := r.grid
	g.columns[r.left].Weight = leftWeight
	g.columns[r.right].Weight = r.weightSum - leftWeight
	r.position = x
	g.relayout()
	return x
}

// EndDrag finishes the drag, emits the new weights and persists them.
func (r *ResizeController) EndDrag() error {
	if !r.dragging {
		return nil
	}
	r.dragging = false
	return r.grid.emitResized()
}

// CancelDrag stops a drag without emitting or persisting.
func (r *ResizeController) CancelDrag() { r.dragging = false }

func (g *Grid) visibleColumns() []int {
	out := make([]int, 0, len(g.columns))
	for i, c := range g.columns {
		if !c.Hidden {
			out = append(out, i)
		}
	}
	return out
}
