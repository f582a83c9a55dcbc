package datagrid

// invalidate bumps the version of n and every ancestor, so each of their
// flattened sequences is recomputed on next read. It also schedules a
// render when n is attached.
func (n *Node) invalidate() {
	for p := n; p != nil; p = p.parent {
		p.version++
	}
	if n.grid != nil {
		n.grid.scheduleRender(false)
	}
}

// Flatten returns the revealed descendants of n in pre-order, excluding n
// itself. Children of a collapsed node are omitted. The result is memoized
// and the same slice is returned until a mutation below n occurs; callers
// must not modify it.
func (n *Node) Flatten() []*Node {
	if n.flatValid && n.flatVersion == n.version {
		return n.flat
	}
	var out []*Node
	if n.expanded {
		for _, c := range n.children {
			out = append(out, c)
			out = append(out, c.Flatten()...)
		}
	}
	n.flat = out
	n.flatVersion = n.version
	n.flatValid = true
	return out
}
