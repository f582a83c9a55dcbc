package datagrid

// SelectionKind tells whether a node gained or lost the selection.
type SelectionKind int

const (
	Selected SelectionKind = iota
	Deselected
)

func (k SelectionKind) String() string {
	if k == Deselected {
		return "deselected"
	}
	return "selected"
}

// SelectionEvent is emitted once per selection transition.
type SelectionEvent struct {
	Kind SelectionKind
	Node *Node
}

// PaddingEvent carries the spacer sizes after a render changed them.
type PaddingEvent struct {
	Top    float64
	Bottom float64
}

// ColumnsResizedEvent carries the column weights after a resize drag ends.
type ColumnsResizedEvent struct {
	Weights map[string]float64
}

type listener[T any] struct {
	id int
	fn func(T)
}

// listeners is an ordered subscriber list. Unsubscribing during emit is
// allowed; the removed listener is skipped from the next emit on.
type listeners[T any] struct {
	nextID int
	list   []listener[T]
}

func (l *listeners[T]) add(fn func(T)) (unsubscribe func()) {
	l.nextID++
	id := l.nextID
	l.list = append(l.list, listener[T]{id: id, fn: fn})
	return func() {
		for i, e := range l.list {
			if e.id == id {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) emit(v T) {
	for _, e := range l.list {
		e.fn(v)
	}
}
