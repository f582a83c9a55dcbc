package datagrid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func networkColumns() []Column {
	return []Column{
		{ID: "name", Sortable: true, Disclosure: true},
		{ID: "status", Sortable: true, Sort: SortNumeric},
	}
}

func newTestGrid(t *testing.T, opts Options) *Grid {
	t.Helper()
	g := New(opts)
	require.NoError(t, g.SetColumns(networkColumns()))
	return g
}

func request(name string, status int) *Node {
	return NewNode(map[string]any{"name": name, "status": status}, false)
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text("name")
	}
	return out
}

// allNodes walks the whole tree in pre-order, including collapsed subtrees.
func allNodes(g *Grid) []*Node {
	var out []*Node
	for n := g.Root().TraverseNext(false, nil); n != nil; n = n.TraverseNext(false, nil) {
		out = append(out, n)
	}
	return out
}

func insertRows(t *testing.T, g *Grid, count int) []*Node {
	t.Helper()
	rows := make([]*Node, count)
	for i := range rows {
		rows[i] = request(fmt.Sprintf("r%02d", i), 200+i)
		require.NoError(t, g.InsertChild(rows[i]))
	}
	return rows
}

type memoryLayouts struct {
	layouts map[string]Layout
	saves   int
}

func newMemoryLayouts() *memoryLayouts {
	return &memoryLayouts{layouts: map[string]Layout{}}
}

func (m *memoryLayouts) LoadLayout(id string) (Layout, bool, error) {
	l, ok := m.layouts[id]
	return l, ok, nil
}

func (m *memoryLayouts) SaveLayout(id string, l Layout) error {
	m.saves++
	m.layouts[id] = l
	return nil
}
