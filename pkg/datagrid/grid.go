package datagrid

import (
	"fmt"
	"slices"
)

// Defaults used when Options leave a field unset.
const (
	DefaultCornerWidth         = 1
	DefaultColumnResizePadding = 3
)

// Layout is the per-grid state a Persistence collaborator keeps between
// sessions.
type Layout struct {
	Weights map[string]float64
	Sort    SortState
}

// Persistence stores layouts by grid id.
type Persistence interface {
	LoadLayout(gridID string) (Layout, bool, error)
	SaveLayout(gridID string, layout Layout) error
}

// Options configure a Grid. Every field is optional.
type Options struct {
	// ID keys persisted layouts.
	ID        string
	Scheduler FrameScheduler
	Registry  *ComparatorRegistry
	RowHeight HeightFunc
	// CornerWidth is the gutter taken from the container before columns
	// are sized. Negative means none.
	CornerWidth   int
	ResizePadding int
	ResizeMethod  ResizeMethod
	// StickToBottom keeps the view pinned to the newest row when it was
	// at the bottom before rows were added.
	StickToBottom bool
	// Populator fills in the children of a lazily populated node the first
	// time it is expanded.
	Populator   func(*Node)
	Persistence Persistence
}

// Grid is a tree-table with sorting, selection, column resizing and a
// scroll window.
type Grid struct {
	opts Options
	root *Node

	columns        []Column
	columnIndex    map[string]int
	columnsVersion uint64
	widths         []int

	sort SortState

	containerWidth int
	clientHeight   float64
	scrollTop      float64
	atBottom       bool

	renderScheduled bool
	needsRender     bool
	renderFromUser  bool

	visible []*Node
	frame   Frame

	selection *SelectionController
	resize    *ResizeController

	onSort    listeners[SortState]
	onPadding listeners[PaddingEvent]
	onResized listeners[ColumnsResizedEvent]
}

// New creates an empty grid.
func New(opts Options) *Grid {
	if opts.Scheduler == nil {
		opts.Scheduler = &ManualFrames{}
	}
	if opts.Registry == nil {
		opts.Registry = NewComparatorRegistry()
	}
	if opts.RowHeight == nil {
		opts.RowHeight = UniformHeight(1)
	}
	if opts.CornerWidth == 0 {
		opts.CornerWidth = DefaultCornerWidth
	}
	opts.CornerWidth = max(opts.CornerWidth, 0)
	if opts.ResizePadding <= 0 {
		opts.ResizePadding = DefaultColumnResizePadding
	}
	g := &Grid{
		opts:        opts,
		columnIndex: map[string]int{},
		atBottom:    true,
	}
	g.root = newRoot(g)
	g.selection = &SelectionController{grid: g}
	g.resize = &ResizeController{grid: g, padding: opts.ResizePadding, method: opts.ResizeMethod}
	return g
}

func (g *Grid) Root() *Node { return g.root }
func (g *Grid) Registry() *ComparatorRegistry { return g.opts.Registry }
func (g *Grid) Selection() *SelectionController { return g.selection }
func (g *Grid) Resizer() *ResizeController { return g.resize }
func (g *Grid) Sort() SortState { return g.sort }
func (g *Grid) ScrollTop() float64 { return g.scrollTop }

// Columns returns a copy of the column configuration.
func (g *Grid) Columns() []Column { return slices.Clone(g.columns) }

// Widths returns the current cell width of every column.
func (g *Grid) Widths() []int { return slices.Clone(g.widths) }

// Ordering reports whether siblings are kept in sorted order.
func (g *Grid) Ordering() Ordering {
	if g.sort.Active() {
		return OrderingSorted
	}
	return OrderingInsertion
}

// Flatten returns every revealed row in display order.
func (g *Grid) Flatten() []*Node { return g.root.Flatten() }

// SetColumns replaces the column configuration. It fails without changing
// anything when the configuration is invalid. An active sort survives if
// its column still exists and is sortable, and is re-applied with the new
// comparator.
func (g *Grid) SetColumns(cols []Column) error {
	normalized, err := normalizeColumns(cols, g.opts.Registry)
	if err != nil {
		return err
	}
	g.columns = normalized
	g.columnIndex = make(map[string]int, len(normalized))
	for i, c := range normalized {
		g.columnIndex[c.ID] = i
	}
	if g.sort.Active() {
		if c, ok := g.column(g.sort.ColumnID); !ok || !c.Sortable {
			g.sort = SortState{}
		} else {
			g.applySort()
		}
	}
	g.relayout()
	return nil
}

func (g *Grid) column(id string) (Column, bool) {
	i, ok := g.columnIndex[id]
	if !ok {
		return Column{}, false
	}
	return g.columns[i], true
}

// relayout recomputes widths and forces every materialized row to rebuild
// its cells on the next render.
func (g *Grid) relayout() {
	g.widths = DistributeWidths(g.columns, g.containerWidth-g.opts.CornerWidth)
	g.columnsVersion++
	g.scheduleRender(false)
}

// Weights returns the weight of every column by id.
func (g *Grid) Weights() map[string]float64 {
	out := make(map[string]float64, len(g.columns))
	for _, c := range g.columns {
		out[c.ID] = c.Weight
	}
	return out
}

// SetWeights updates column weights by id. Unknown ids are ignored;
// non-positive weights are rejected before anything changes.
func (g *Grid) SetWeights(weights map[string]float64) error {
	for id, w := range weights {
		if w <= 0 {
			return &InvalidParameterError{Name: "weight", Value: w, Reason: fmt.Sprintf("column %q weight must be positive", id)}
		}
	}
	for id, w := range weights {
		if i, ok := g.columnIndex[id]; ok {
			g.columns[i].Weight = w
		}
	}
	g.relayout()
	return nil
}

// InsertChild appends node as a top-level row.
func (g *Grid) InsertChild(n *Node) error {
	return g.root.AppendChild(n)
}

// InsertChildOrdered inserts node as a top-level row at its sorted
// position. It requires an active sort.
func (g *Grid) InsertChildOrdered(n *Node) error {
	return g.root.InsertChildOrdered(n)
}

// RemoveChild removes node, at any depth, together with its subtree.
func (g *Grid) RemoveChild(n *Node) error {
	if n == nil {
		return &InvalidParameterError{Name: "node", Value: nil, Reason: "nil node"}
	}
	if n.grid != g || n.parent == nil {
		return &InvalidNodeError{Op: "remove child", Reason: "node does not belong to this grid"}
	}
	return n.parent.RemoveChild(n)
}

// RemoveChildren removes every row.
func (g *Grid) RemoveChildren() { g.root.RemoveChildren() }

// Clear removes every row and resets scrolling.
func (g *Grid) Clear() {
	g.root.RemoveChildren()
	g.scrollTop = 0
	g.atBottom = true
}

// OnHeaderClick advances the sort of a column: unsorted or another column
// goes to ascending, ascending to descending, descending back to ascending.
// Clicking a column that is not sortable does nothing.
func (g *Grid) OnHeaderClick(columnID string) error {
	if columnID == "" {
		return &InvalidParameterError{Name: "columnID", Value: columnID, Reason: "empty column id"}
	}
	c, ok := g.column(columnID)
	if !ok {
		return &InvalidParameterError{Name: "columnID", Value: columnID, Reason: "unknown column"}
	}
	if !c.Sortable {
		return nil
	}
	next := SortState{ColumnID: columnID, Direction: Ascending}
	if g.sort.ColumnID == columnID && g.sort.Direction == Ascending {
		next.Direction = Descending
	}
	return g.setSort(next)
}

// SetSort applies a sort directly. A zero SortState returns the grid to
// insertion order for future inserts; rows already sorted keep their order.
func (g *Grid) SetSort(s SortState) error {
	if s.Active() {
		c, ok := g.column(s.ColumnID)
		if !ok {
			return &InvalidParameterError{Name: "columnID", Value: s.ColumnID, Reason: "unknown column"}
		}
		if !c.Sortable {
			return &InvalidParameterError{Name: "columnID", Value: s.ColumnID, Reason: "column is not sortable"}
		}
	}
	return g.setSort(s)
}

func (g *Grid) setSort(s SortState) error {
	if !s.Active() {
		s = SortState{}
	}
	g.sort = s
	g.applySort()
	g.columnsVersion++
	g.scheduleRender(false)
	g.onSort.emit(s)
	return g.saveLayout()
}

func (g *Grid) applySort() {
	cmp, desc, ok := g.activeComparator()
	if !ok {
		return
	}
	SortEngine{}.Sort(g.root, cmp, desc)
}

func (g *Grid) activeComparator() (Comparator, bool, bool) {
	if !g.sort.Active() {
		return nil, false, false
	}
	c, ok := g.column(g.sort.ColumnID)
	if !ok {
		return nil, false, false
	}
	fn := c.Compare
	if fn == nil {
		fn, _ = g.opts.Registry.Lookup(c.Sort)
	}
	return ForColumn(c.ID, fn), g.sort.Direction == Descending, true
}

// RestoreLayout loads persisted weights and sort for the grid id.
func (g *Grid) RestoreLayout() error {
	if g.opts.Persistence == nil || g.opts.ID == "" {
		return nil
	}
	layout, ok, err := g.opts.Persistence.LoadLayout(g.opts.ID)
	if err != nil {
		return fmt.Errorf("failed to load layout %s: %w", g.opts.ID, err)
	}
	if !ok {
		return nil
	}
	for id, w := range layout.Weights {
		if i, ok := g.columnIndex[id]; ok && w > 0 {
			g.columns[i].Weight = w
		}
	}
	g.relayout()
	if c, ok := g.column(layout.Sort.ColumnID); ok && c.Sortable && layout.Sort.Active() {
		g.sort = layout.Sort
		g.applySort()
		g.onSort.emit(g.sort)
	}
	return nil
}

func (g *Grid) saveLayout() error {
	if g.opts.Persistence == nil || g.opts.ID == "" {
		return nil
	}
	layout := Layout{Weights: g.Weights(), Sort: g.sort}
	if err := g.opts.Persistence.SaveLayout(g.opts.ID, layout); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", g.opts.ID, err)
	}
	return nil
}

// SetViewport is the resize hook: hosts call it whenever the container
// changes size. A clientHeight of zero renders every row inline.
func (g *Grid) SetViewport(width int, clientHeight float64) {
	if width == g.containerWidth && clientHeight == g.clientHeight {
		return
	}
	g.clientHeight = max(clientHeight, 0)
	if width != g.containerWidth {
		g.containerWidth = width
		g.relayout()
		return
	}
	g.scheduleRender(false)
}

// ScrollTo records a user scroll. The position is clamped on render.
func (g *Grid) ScrollTo(scrollTop float64) {
	g.scrollTop = scrollTop
	g.scheduleRender(true)
}

// ScrollBy scrolls relative to the current position.
func (g *Grid) ScrollBy(delta float64) {
	g.ScrollTo(g.scrollTop + delta)
}

// ScrollToBottom scrolls to the end and re-enables stick-to-bottom.
func (g *Grid) ScrollToBottom() {
	total := TotalHeight(g.root.Flatten(), g.opts.RowHeight)
	g.scrollTop = max(total-g.clientHeight, 0)
	g.atBottom = true
	g.scheduleRender(false)
}

// RevealNode expands the node's ancestors and scrolls the minimum distance
// that brings it into view.
func (g *Grid) RevealNode(n *Node) error {
	if n == nil || n.grid != g || n.isRoot {
		return &InvalidNodeError{Op: "reveal", Reason: "node does not belong to this grid"}
	}
	n.Reveal()
	if g.clientHeight <= 0 {
		return nil
	}
	var y float64
	for _, f := range g.root.Flatten() {
		if f == n {
			break
		}
		y += g.opts.RowHeight(f)
	}
	h := g.opts.RowHeight(n)
	switch {
	case y < g.scrollTop:
		g.ScrollTo(y)
	case y+h > g.scrollTop+g.clientHeight:
		g.ScrollTo(y + h - g.clientHeight)
	}
	return nil
}

// Select selects n and scrolls it into view.
func (g *Grid) Select(n *Node) error {
	if err := g.selection.Select(n); err != nil {
		return err
	}
	if n.selected {
		return g.RevealNode(n)
	}
	return nil
}

// SelectNext moves the selection to the next selectable revealed row, or to
// the first one when nothing is selected. It reports whether it moved.
func (g *Grid) SelectNext() bool {
	var n *Node
	if cur := g.selection.selected; cur != nil {
		n = cur.TraverseNext(true, nil)
	} else {
		n = g.root.TraverseNext(true, nil)
	}
	for ; n != nil; n = n.TraverseNext(true, nil) {
		if n.Selectable() {
			return g.Select(n) == nil
		}
	}
	return false
}

// SelectPrevious moves the selection to the previous selectable revealed
// row. It reports whether it moved.
func (g *Grid) SelectPrevious() bool {
	cur := g.selection.selected
	if cur == nil {
		return false
	}
	for n := cur.TraversePrevious(true); n != nil; n = n.TraversePrevious(true) {
		if n.Selectable() {
			return g.Select(n) == nil
		}
	}
	return false
}

// OnSelectionChanged subscribes to selection transitions.
func (g *Grid) OnSelectionChanged(fn func(SelectionEvent)) (unsubscribe func()) {
	return g.selection.events.add(fn)
}

// OnSortChanged subscribes to sort changes.
func (g *Grid) OnSortChanged(fn func(SortState)) (unsubscribe func()) {
	return g.onSort.add(fn)
}

// OnPaddingChanged subscribes to spacer size changes.
func (g *Grid) OnPaddingChanged(fn func(PaddingEvent)) (unsubscribe func()) {
	return g.onPadding.add(fn)
}

// OnColumnsResized subscribes to the end of resize drags.
func (g *Grid) OnColumnsResized(fn func(ColumnsResizedEvent)) (unsubscribe func()) {
	return g.onResized.add(fn)
}

func (g *Grid) emitResized() error {
	g.onResized.emit(ColumnsResizedEvent{Weights: g.Weights()})
	return g.saveLayout()
}
