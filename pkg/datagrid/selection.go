package datagrid

// SelectionController keeps at most one node of a grid selected.
type SelectionController struct {
	grid     *Grid
	selected *Node
	events   listeners[SelectionEvent]
}

// Selected returns the selected node, or nil.
func (s *SelectionController) Selected() *Node { return s.selected }

// Select makes n the selected node. Selecting an unselectable or already
// selected node does nothing. The previous selection is cleared first and
// each transition emits one event.
func (s *SelectionController) Select(n *Node) error {
	if n == nil {
		return &InvalidParameterError{Name: "node", Value: nil, Reason: "nil node"}
	}
	if n.grid != s.grid {
		return &InvalidNodeError{Op: "select", Reason: "node does not belong to this grid"}
	}
	if !n.Selectable() || n.selected {
		return nil
	}
	s.Deselect()
	n.selected = true
	s.selected = n
	n.markDirty()
	s.events.emit(SelectionEvent{Kind: Selected, Node: n})
	return nil
}

// Deselect clears the selection. It does nothing when nothing is selected.
func (s *SelectionController) Deselect() {
	cur := s.selected
	if cur == nil {
		return
	}
	cur.selected = false
	s.selected = nil
	cur.markDirty()
	s.events.emit(SelectionEvent{Kind: Deselected, Node: cur})
}

// within reports whether the selection is n or one of its descendants.
func (s *SelectionController) within(n *Node) bool {
	for p := s.selected; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// replace moves the selection after a removal. The removed node may already
// be detached, so it is cleared without consulting its grid.
func (s *SelectionController) replace(target *Node) {
	if cur := s.selected; cur != nil {
		cur.selected = false
		s.selected = nil
		s.events.emit(SelectionEvent{Kind: Deselected, Node: cur})
	}
	if target == nil {
		return
	}
	target.Reveal()
	_ = s.Select(target)
}
