package datagrid

import (
	"slices"
	"sort"
)

// Direction of a column sort.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// ParseDirection accepts asc/ascending and desc/descending.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	case "none":
		return Unsorted, nil
	}
	return Unsorted, &InvalidParameterError{Name: "direction", Value: s, Reason: "expected asc or desc"}
}

// SortState is the active sort. The zero value means insertion order.
type SortState struct {
	ColumnID  string
	Direction Direction
}

// Active reports whether rows are kept in sorted order.
func (s SortState) Active() bool { return s.ColumnID != "" && s.Direction != Unsorted }

// Ordering tells how a grid currently orders siblings.
type Ordering int

const (
	OrderingInsertion Ordering = iota
	OrderingSorted
)

// SortEngine reorders any subtree. It holds no state.
type SortEngine struct{}

// Sort stably orders the children of root and of every descendant.
// Descending applies cmp(b, a) rather than reversing the result, so ties
// keep their relative order either way. Node identity is preserved and
// sibling links are recalculated at every level.
func (SortEngine) Sort(root *Node, cmp Comparator, descending bool) {
	eff := effective(cmp, descending)
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(n.children) == 0 {
			continue
		}
		slices.SortStableFunc(n.children, eff)
		n.relinkFrom(0)
		n.version++
		stack = append(stack, n.children...)
	}
	root.invalidate()
}

// InsertionIndex returns the index at which child belongs among parent's
// children. Equal elements keep arrival order: the result is past every
// existing child that compares equal, matching append followed by a
// stable sort.
func (SortEngine) InsertionIndex(parent, child *Node, cmp Comparator, descending bool) int {
	eff := effective(cmp, descending)
	return sort.Search(len(parent.children), func(i int) bool {
		return eff(child, parent.children[i]) < 0
	})
}

func effective(cmp Comparator, descending bool) Comparator {
	if descending {
		return Reverse(cmp)
	}
	return cmp
}
