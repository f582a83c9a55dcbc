package datagrid

import (
	"maps"
	"slices"
)

// Node is one row of the tree. Nodes are created detached with NewNode and
// become part of a grid when inserted under its root or under another
// attached node.
type Node struct {
	data map[string]any

	parent   *Node
	children []*Node
	prev     *Node
	next     *Node

	grid   *Grid
	isRoot bool

	expanded    bool
	selected    bool
	selectable  bool
	hasChildren bool
	populated   bool

	// dirty means the cell text of the render handle must be rebuilt.
	dirty bool
	row   *Row

	version     uint64
	flatVersion uint64
	flatValid   bool
	flat        []*Node
}

// NewNode creates a detached node holding a copy of data.
// hasChildren marks the node as expandable before any child exists,
// which lets children be populated lazily on first expand.
func NewNode(data map[string]any, hasChildren bool) *Node {
	if data == nil {
		data = map[string]any{}
	} else {
		data = maps.Clone(data)
	}
	return &Node{
		data:        data,
		selectable:  true,
		hasChildren: hasChildren,
		dirty:       true,
	}
}

func newRoot(g *Grid) *Node {
	return &Node{
		data:        map[string]any{},
		grid:        g,
		isRoot:      true,
		expanded:    true,
		hasChildren: true,
		populated:   true,
	}
}

// Value returns the raw value stored for a column.
func (n *Node) Value(columnID string) any { return n.data[columnID] }

// Data returns a copy of the node's values.
func (n *Node) Data() map[string]any { return maps.Clone(n.data) }

// Text returns the displayed text of a column, using the owning grid's
// column formatter when one is configured.
func (n *Node) Text(columnID string) string {
	if n.grid != nil {
		if col, ok := n.grid.column(columnID); ok && col.Format != nil {
			return col.Format(n.data[columnID])
		}
	}
	return CellText(n.data[columnID])
}

// SetValue replaces a column value and schedules a repaint of the row.
// It does not re-sort; sorted position is fixed at insertion time.
func (n *Node) SetValue(columnID string, v any) {
	n.data[columnID] = v
	n.dirty = true
	if n.grid != nil {
		n.grid.scheduleRender(false)
	}
}

func (n *Node) Parent() *Node {
	if n.parent == nil || n.parent.isRoot {
		return nil
	}
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) NextSibling() *Node { return n.next }
func (n *Node) PreviousSibling() *Node { return n.prev }

func (n *Node) IsRoot() bool { return n.isRoot }
func (n *Node) Expanded() bool { return n.expanded }
func (n *Node) Selected() bool { return n.selected }
func (n *Node) Selectable() bool { return n.selectable && !n.isRoot }
func (n *Node) HasChildren() bool { return n.hasChildren }

// Grid returns the grid the node is attached to, or nil.
func (n *Node) Grid() *Grid { return n.grid }

// Row returns the render handle, or nil if the node was never materialized.
func (n *Node) Row() *Row { return n.row }

// Depth is 1 for top-level rows and 0 for the root.
func (n *Node) Depth() int {
	d := 0
	for p := n; p != nil && !p.isRoot; p = p.parent {
		d++
	}
	return d
}

// SetSelectable changes whether the node may be selected. Making the
// selected node unselectable clears the selection.
func (n *Node) SetSelectable(v bool) {
	if n.isRoot {
		return
	}
	n.selectable = v
	if !v && n.selected && n.grid != nil {
		n.grid.selection.Deselect()
	}
}

// SetHasChildren marks the node as expandable, typically before lazy
// population.
func (n *Node) SetHasChildren(v bool) {
	if n.isRoot || n.hasChildren == v {
		return
	}
	n.hasChildren = v
	n.populated = false
	n.markDirty()
}

// Revealed reports whether every ancestor up to the root is expanded.
func (n *Node) Revealed() bool {
	if n.isRoot {
		return true
	}
	for p := n.parent; p != nil; p = p.parent {
		if !p.expanded {
			return false
		}
	}
	return n.parent != nil && n.grid != nil
}

// Expand shows the node's children, populating them first if the grid
// has a populator and the node has not been populated yet.
func (n *Node) Expand() {
	if n.isRoot || n.expanded {
		return
	}
	if !n.hasChildren && len(n.children) == 0 {
		return
	}
	n.populate()
	n.expanded = true
	n.markDirty()
	n.invalidate()
}

// Collapse hides the node's children.
func (n *Node) Collapse() {
	if n.isRoot || !n.expanded {
		return
	}
	n.expanded = false
	n.markDirty()
	n.invalidate()
}

// ExpandRecursively expands the node and every descendant.
func (n *Node) ExpandRecursively() {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur.Expand()
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// CollapseRecursively collapses the node and every descendant.
func (n *Node) CollapseRecursively() {
	n.Collapse()
	for _, c := range n.children {
		c.CollapseRecursively()
	}
}

// Reveal expands every ancestor so the node becomes eligible for rendering.
func (n *Node) Reveal() {
	for p := n.parent; p != nil && !p.isRoot; p = p.parent {
		p.Expand()
	}
}

func (n *Node) populate() {
	if n.populated || n.grid == nil || n.grid.opts.Populator == nil {
		return
	}
	n.populated = true
	if len(n.children) == 0 {
		n.grid.opts.Populator(n)
	}
}

// TraverseNext returns the next node in pre-order. With skipHidden set it
// does not descend into collapsed nodes. Traversal never leaves stayWithin
// when it is non-nil.
func (n *Node) TraverseNext(skipHidden bool, stayWithin *Node) *Node {
	if len(n.children) > 0 && (!skipHidden || n.expanded) {
		return n.children[0]
	}
	for node := n; node != nil; node = node.parent {
		if node == stayWithin || node.isRoot {
			return nil
		}
		if node.next != nil {
			return node.next
		}
	}
	return nil
}

// TraversePrevious returns the previous node in pre-order, never the root.
func (n *Node) TraversePrevious(skipHidden bool) *Node {
	if n.prev != nil {
		node := n.prev
		for len(node.children) > 0 && (!skipHidden || node.expanded) {
			node = node.children[len(node.children)-1]
		}
		return node
	}
	if n.parent != nil && !n.parent.isRoot {
		return n.parent
	}
	return nil
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertChildAt(child, len(n.children))
}

// InsertChildAt inserts child at index among n's children.
func (n *Node) InsertChildAt(child *Node, index int) error {
	if err := n.checkInsert("insert child", child); err != nil {
		return err
	}
	if index < 0 || index > len(n.children) {
		return &InvalidParameterError{Name: "index", Value: index, Reason: "out of range"}
	}
	n.link(child, index)
	return nil
}

// InsertChildOrdered inserts child at the position the grid's active sort
// dictates, sorting child's own subtree first. It requires an attached
// parent and an active sort.
func (n *Node) InsertChildOrdered(child *Node) error {
	if err := n.checkInsert("insert child ordered", child); err != nil {
		return err
	}
	if n.grid == nil {
		return &InvalidNodeError{Op: "insert child ordered", Reason: "parent is not attached to a grid"}
	}
	cmp, desc, ok := n.grid.activeComparator()
	if !ok {
		return &InvalidParameterError{Name: "sort", Value: n.grid.sort, Reason: "ordered insert requires an active sort"}
	}
	var engine SortEngine
	engine.Sort(child, cmp, desc)
	n.link(child, engine.InsertionIndex(n, child, cmp, desc))
	return nil
}

// RemoveChild detaches child and its subtree from n. If the selection lies
// in the removed subtree it moves to the nearest selectable sibling, or
// failing that, to the nearest selectable ancestor.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil {
		return &InvalidParameterError{Name: "child", Value: nil, Reason: "nil node"}
	}
	if child.parent != n {
		return &InvalidNodeError{Op: "remove child", Reason: "node is not a child of this parent"}
	}
	g := n.grid
	var target *Node
	transfer := g != nil && g.selection.within(child)
	if transfer {
		target = selectionAfterRemoval(child)
	}

	idx := slices.Index(n.children, child)
	n.children = slices.Delete(n.children, idx, idx+1)
	n.relinkFrom(max(idx-1, 0))
	child.parent, child.prev, child.next = nil, nil, nil
	child.detach()
	if len(n.children) == 0 && !n.isRoot {
		n.hasChildren = false
		n.markDirty()
	}
	n.invalidate()

	if transfer {
		g.selection.replace(target)
	}
	return nil
}

// RemoveChildren detaches every child of n. A selection inside the removed
// subtrees moves to n, or its nearest selectable ancestor, and is cleared
// when there is none.
func (n *Node) RemoveChildren() {
	if len(n.children) == 0 {
		return
	}
	g := n.grid
	transfer := false
	if g != nil && g.selection.selected != nil {
		for _, c := range n.children {
			if g.selection.within(c) {
				transfer = true
				break
			}
		}
	}
	for _, c := range n.children {
		c.parent, c.prev, c.next = nil, nil, nil
		c.detach()
	}
	n.children = nil
	if !n.isRoot {
		n.hasChildren = false
		n.markDirty()
	}
	n.invalidate()

	if transfer {
		g.selection.replace(selectableAncestor(n))
	}
}

func (n *Node) checkInsert(op string, child *Node) error {
	if child == nil {
		return &InvalidParameterError{Name: "child", Value: nil, Reason: "nil node"}
	}
	if child.isRoot {
		return &InvalidNodeError{Op: op, Reason: "root cannot be a child"}
	}
	if child.parent != nil || child.grid != nil {
		return &InvalidNodeError{Op: op, Reason: "node is already attached"}
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return &InvalidNodeError{Op: op, Reason: "node cannot be inserted under itself"}
		}
	}
	return nil
}

func (n *Node) link(child *Node, index int) {
	n.children = slices.Insert(n.children, index, child)
	child.parent = n
	n.relinkFrom(max(index-1, 0))
	if !n.isRoot && !n.hasChildren {
		n.hasChildren = true
		n.markDirty()
	}
	child.attach(n.grid)
	n.invalidate()
}

// relinkFrom recalculates sibling links for children[from:].
func (n *Node) relinkFrom(from int) {
	for i := from; i < len(n.children); i++ {
		c := n.children[i]
		if i > 0 {
			c.prev = n.children[i-1]
		} else {
			c.prev = nil
		}
		if i+1 < len(n.children) {
			c.next = n.children[i+1]
		} else {
			c.next = nil
		}
	}
}

func (n *Node) attach(g *Grid) {
	if g == nil {
		return
	}
	n.grid = g
	n.dirty = true
	for _, c := range n.children {
		c.attach(g)
	}
}

func (n *Node) detach() {
	if n.grid != nil {
		n.grid.forgetRow(n)
	}
	n.grid = nil
	n.selected = false
	n.row = nil
	for _, c := range n.children {
		c.detach()
	}
}

func (n *Node) markDirty() {
	n.dirty = true
	if n.grid != nil {
		n.grid.scheduleRender(false)
	}
}

// selectionAfterRemoval picks the node that takes the selection when the
// subtree rooted at removed goes away: the nearest selectable sibling after
// it, then before it, then the nearest selectable ancestor.
func selectionAfterRemoval(removed *Node) *Node {
	for node := removed.next; node != nil; node = node.next {
		if node.Selectable() {
			return node
		}
	}
	for node := removed.prev; node != nil; node = node.prev {
		if node.Selectable() {
			return node
		}
	}
	return selectableAncestor(removed.parent)
}

// selectableAncestor returns n or its nearest selectable ancestor.
func selectableAncestor(n *Node) *Node {
	for ; n != nil; n = n.parent {
		if n.Selectable() {
			return n
		}
	}
	return nil
}
