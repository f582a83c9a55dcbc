package datagrid

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertLevelsOrdered(t *testing.T, n *Node, cmp Comparator, descending bool) {
	t.Helper()
	for i := 0; i+1 < len(n.children); i++ {
		a, b := n.children[i], n.children[i+1]
		if descending {
			assert.LessOrEqual(t, cmp(b, a), 0, "children of %q at %d", n.Text("name"), i)
		} else {
			assert.LessOrEqual(t, cmp(a, b), 0, "children of %q at %d", n.Text("name"), i)
		}
		assert.Same(t, b, a.next)
		assert.Same(t, a, b.prev)
	}
	for _, c := range n.children {
		assertLevelsOrdered(t, c, cmp, descending)
	}
}

func TestSortEngine_EveryLevel(t *testing.T) {
	cmp := ForColumn("status", NumericComparator)
	for _, descending := range []bool{false, true} {
		t.Run(fmt.Sprintf("descending=%v", descending), func(t *testing.T) {
			g := newTestGrid(t, Options{})
			randomTree(t, g, rand.New(rand.NewPCG(7, 11)), 150)

			SortEngine{}.Sort(g.Root(), cmp, descending)
			assertLevelsOrdered(t, g.Root(), cmp, descending)
		})
	}
}

func TestSortEngine_RecursiveAtDepth(t *testing.T) {
	g := newTestGrid(t, Options{})
	batch := request("batch", 200)
	require.NoError(t, g.InsertChild(batch))
	inner := request("inner", 200)
	require.NoError(t, batch.AppendChild(inner))
	for _, s := range []int{500, 200, 404} {
		require.NoError(t, inner.AppendChild(request(fmt.Sprintf("sub-%d", s), s)))
	}

	require.NoError(t, g.OnHeaderClick("status"))
	assert.Equal(t, []string{"sub-200", "sub-404", "sub-500"}, names(inner.Children()))

	require.NoError(t, g.OnHeaderClick("status"))
	assert.Equal(t, []string{"sub-500", "sub-404", "sub-200"}, names(inner.Children()))
}

func TestSortEngine_StableTiesBothDirections(t *testing.T) {
	g := newTestGrid(t, Options{})
	for _, n := range []*Node{request("x1", 200), request("y", 100), request("x2", 200), request("x3", 200)} {
		require.NoError(t, g.InsertChild(n))
	}
	cmp := ForColumn("status", NumericComparator)

	SortEngine{}.Sort(g.Root(), cmp, false)
	assert.Equal(t, []string{"y", "x1", "x2", "x3"}, names(g.Flatten()))

	SortEngine{}.Sort(g.Root(), cmp, true)
	assert.Equal(t, []string{"x1", "x2", "x3", "y"}, names(g.Flatten()))
}

func TestSortEngine_PreservesIdentity(t *testing.T) {
	g := newTestGrid(t, Options{})
	rows := insertRows(t, g, 5)
	g.SetViewport(41, 0)
	g.Render()
	handles := map[*Node]*Row{}
	for _, n := range rows {
		handles[n] = n.Row()
	}

	require.NoError(t, g.SetSort(SortState{ColumnID: "status", Direction: Descending}))
	frame := g.Render()
	for _, r := range frame.Rows {
		assert.Same(t, handles[r.Node()], r)
	}
	assert.Equal(t, 0, frame.Stats.Attached)
}

func TestInsertChildOrdered_MatchesAppendThenSort(t *testing.T) {
	for _, dir := range []Direction{Ascending, Descending} {
		t.Run(dir.String(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(3, uint64(dir)))
			type rec struct {
				name   string
				status int
				subs   []int
			}
			recs := make([]rec, 60)
			for i := range recs {
				recs[i] = rec{name: fmt.Sprintf("r%02d", i), status: 200 + rng.IntN(4)*100}
				if rng.IntN(5) == 0 {
					for j := range 3 {
						recs[i].subs = append(recs[i].subs, 200+rng.IntN(3)*100+j%2)
					}
				}
			}
			build := func(r rec) *Node {
				n := request(r.name, r.status)
				for j, s := range r.subs {
					require.NoError(t, n.AppendChild(request(fmt.Sprintf("%s.%d", r.name, j), s)))
				}
				n.Expand()
				return n
			}

			ordered := newTestGrid(t, Options{})
			require.NoError(t, ordered.SetSort(SortState{ColumnID: "status", Direction: dir}))
			for _, r := range recs {
				require.NoError(t, ordered.InsertChildOrdered(build(r)))
			}

			appended := newTestGrid(t, Options{})
			for _, r := range recs {
				require.NoError(t, appended.InsertChild(build(r)))
			}
			require.NoError(t, appended.SetSort(SortState{ColumnID: "status", Direction: dir}))

			assert.Equal(t, names(appended.Flatten()), names(ordered.Flatten()))
			assert.Equal(t, OrderingSorted, ordered.Ordering())
		})
	}
}

func TestInsertChildOrdered_RequiresSort(t *testing.T) {
	g := newTestGrid(t, Options{})
	err := g.InsertChildOrdered(request("a", 200))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, 0, g.Root().ChildCount())
	assert.Equal(t, OrderingInsertion, g.Ordering())

	detached := request("parent", 1)
	assert.ErrorIs(t, detached.InsertChildOrdered(request("child", 1)), ErrInvalidNode)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Ascending, false},
		{"asc", Ascending, false},
		{"descending", Descending, false},
		{"none", Unsorted, false},
		{"sideways", Unsorted, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidParameter)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
