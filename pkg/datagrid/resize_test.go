package datagrid

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeColumnGrid(t *testing.T, opts Options) *Grid {
	t.Helper()
	g := New(opts)
	require.NoError(t, g.SetColumns([]Column{{ID: "a"}, {ID: "b"}, {ID: "c"}}))
	g.SetViewport(31, 10)
	require.Equal(t, []int{10, 10, 10}, g.Widths())
	return g
}

func sumInts(v []int) int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}

func TestResize_NearestRedistributesPair(t *testing.T) {
	g := threeColumnGrid(t, Options{})
	r := g.Resizer()
	assert.Equal(t, []int{10, 20}, r.DividerPositions())

	require.NoError(t, r.BeginDrag(0, 10))
	assert.True(t, r.Dragging())
	assert.Equal(t, 14, r.Drag(14))

	w := g.Weights()
	assert.InDelta(t, 1.4, w["a"], 1e-9)
	assert.InDelta(t, 0.6, w["b"], 1e-9)
	assert.Equal(t, 1.0, w["c"])
	assert.Equal(t, 30, sumInts(g.Widths()))
	assert.InDelta(t, 14, g.Widths()[0], 1)
	assert.Equal(t, 10, g.Widths()[2])
}

func TestResize_ClampsToPadding(t *testing.T) {
	g := threeColumnGrid(t, Options{})
	r := g.Resizer()
	require.NoError(t, r.BeginDrag(1, 20))

	assert.Equal(t, 20-DefaultColumnResizePadding+10, r.Drag(100))
	assert.Equal(t, 10+DefaultColumnResizePadding, r.Drag(-50))
	assert.Equal(t, 1.0, g.Weights()["a"])
	assert.Equal(t, 30, sumInts(g.Widths()))
}

func TestResize_GrabOffset(t *testing.T) {
	g := threeColumnGrid(t, Options{})
	r := g.Resizer()
	require.NoError(t, r.BeginDrag(0, 11))
	assert.Equal(t, 10, r.Drag(11), "grabbing off-center does not move the divider")
	assert.Equal(t, 12, r.Drag(13))
}

func TestResize_Methods(t *testing.T) {
	tests := []struct {
		name        string
		method      ResizeMethod
		divider     int
		dragTo      int
		wantChanged []string
	}{
		{"nearest", ResizeNearest, 1, 24, []string{"b", "c"}},
		{"first", ResizeFirst, 1, 24, []string{"a", "c"}},
		{"last", ResizeLast, 0, 14, []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := threeColumnGrid(t, Options{ResizeMethod: tt.method})
			r := g.Resizer()
			start := r.DividerPositions()[tt.divider]
			require.NoError(t, r.BeginDrag(tt.divider, start))
			r.Drag(tt.dragTo)

			var changed []string
			for id, w := range g.Weights() {
				if w != 1 {
					changed = append(changed, id)
				}
			}
			assert.ElementsMatch(t, tt.wantChanged, changed)
			assert.Equal(t, 30, sumInts(g.Widths()))
		})
	}
}

func TestResize_Errors(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.SetColumns([]Column{{ID: "method", Fixed: true, Width: 6}, {ID: "url"}, {ID: "status"}}))
	g.SetViewport(50, 10)
	r := g.Resizer()

	assert.ErrorIs(t, r.BeginDrag(-1, 0), ErrInvalidParameter)
	assert.ErrorIs(t, r.BeginDrag(2, 0), ErrInvalidParameter)
	assert.ErrorIs(t, r.BeginDrag(0, 6), ErrInvalidParameter, "fixed column")
	assert.False(t, r.Dragging())

	assert.Equal(t, 0, r.Drag(40), "drag without begin is ignored")
	assert.NoError(t, r.EndDrag())
}

func TestResize_EndPersistsAndEmits(t *testing.T) {
	store := newMemoryLayouts()
	g := threeColumnGrid(t, Options{ID: "network", Persistence: store})
	var resized []ColumnsResizedEvent
	g.OnColumnsResized(func(e ColumnsResizedEvent) { resized = append(resized, e) })

	r := g.Resizer()
	require.NoError(t, r.BeginDrag(0, 10))
	r.Drag(16)
	r.Drag(15)
	assert.Equal(t, 0, store.saves, "weights persist only when the drag ends")

	require.NoError(t, r.EndDrag())
	assert.False(t, r.Dragging())
	require.Len(t, resized, 1)
	assert.InDelta(t, 1.5, resized[0].Weights["a"], 1e-9)
	assert.Equal(t, 1, store.saves)
	assert.InDelta(t, 1.5, store.layouts["network"].Weights["a"], 1e-9)

	r.CancelDrag()
	require.NoError(t, r.EndDrag())
	assert.Equal(t, 1, store.saves)
}

func TestResize_WidthConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 17))
	for count := 2; count <= 20; count++ {
		t.Run(fmt.Sprintf("%d columns", count), func(t *testing.T) {
			cols := make([]Column, count)
			for i := range cols {
				cols[i] = Column{ID: fmt.Sprintf("c%d", i), Weight: 0.5 + rng.Float64()*4}
			}
			container := 40*count + rng.IntN(500)
			g := New(Options{})
			require.NoError(t, g.SetColumns(cols))
			g.SetViewport(container, 10)

			r := g.Resizer()
			for range 10 {
				divider := rng.IntN(count - 1)
				start := r.DividerPositions()[divider]
				require.NoError(t, r.BeginDrag(divider, start))
				r.Drag(start + rng.IntN(61) - 30)
				require.NoError(t, r.EndDrag())

				assert.Equal(t, container-DefaultCornerWidth, sumInts(g.Widths()))
				for _, w := range g.Weights() {
					assert.Greater(t, w, 0.0)
				}
			}
		})
	}
}
