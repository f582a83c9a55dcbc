package datagrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnHeaderClick_StatusColumn(t *testing.T) {
	g := newTestGrid(t, Options{})
	for _, n := range []*Node{request("b", 500), request("a", 200), request("c", 404)} {
		require.NoError(t, g.InsertChild(n))
	}

	require.NoError(t, g.OnHeaderClick("status"))
	assert.Equal(t, []string{"a", "c", "b"}, names(g.Flatten()))
	assert.Equal(t, SortState{ColumnID: "status", Direction: Ascending}, g.Sort())

	require.NoError(t, g.OnHeaderClick("status"))
	assert.Equal(t, []string{"b", "c", "a"}, names(g.Flatten()))
	assert.Equal(t, SortState{ColumnID: "status", Direction: Descending}, g.Sort())
}

func TestOnHeaderClick_Cycle(t *testing.T) {
	g := newTestGrid(t, Options{})
	var changes []SortState
	g.OnSortChanged(func(s SortState) { changes = append(changes, s) })

	clicks := []struct {
		column string
		want   SortState
	}{
		{"status", SortState{"status", Ascending}},
		{"status", SortState{"status", Descending}},
		{"status", SortState{"status", Ascending}},
		{"name", SortState{"name", Ascending}},
		{"status", SortState{"status", Ascending}},
	}
	for _, c := range clicks {
		require.NoError(t, g.OnHeaderClick(c.column))
		assert.Equal(t, c.want, g.Sort())
	}
	assert.Len(t, changes, len(clicks))
}

func TestOnHeaderClick_Errors(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.SetColumns([]Column{
		{ID: "name", Sortable: true},
		{ID: "type"},
	}))

	require.NoError(t, g.OnHeaderClick("type"), "non-sortable column is ignored")
	assert.False(t, g.Sort().Active())

	assert.ErrorIs(t, g.OnHeaderClick("nope"), ErrInvalidParameter)
	assert.ErrorIs(t, g.OnHeaderClick(""), ErrInvalidParameter)
	assert.ErrorIs(t, g.SetSort(SortState{ColumnID: "type", Direction: Ascending}), ErrInvalidParameter)
}

func TestRender_HeaderIndicator(t *testing.T) {
	g := newTestGrid(t, Options{})
	g.SetViewport(41, 10)
	require.NoError(t, g.OnHeaderClick("status"))

	frame := g.Render()
	require.Len(t, frame.Header, 2)
	assert.Equal(t, "Name", frame.Header[0].Title)
	assert.Empty(t, frame.Header[0].SortIndicator)
	assert.Equal(t, GlyphAscending, frame.Header[1].SortIndicator)
	assert.Equal(t, 20, frame.Header[1].Width)
}

func TestRender_ReconcilesWindow(t *testing.T) {
	g := newTestGrid(t, Options{})
	rows := insertRows(t, g, 10)
	g.SetViewport(41, 3)

	frame := g.Render()
	assert.Equal(t, RenderStats{Attached: 3, Rebuilt: 3}, frame.Stats)
	assert.Equal(t, 7.0, frame.BottomPadding)
	firstHandle := rows[2].Row()
	require.NotNil(t, firstHandle)

	g.ScrollTo(2)
	frame = g.Render()
	assert.Equal(t, RenderStats{Attached: 2, Detached: 2, Kept: 1, Rebuilt: 2}, frame.Stats)
	assert.Equal(t, 2, frame.Offset)
	assert.Equal(t, 2.0, frame.TopPadding)
	assert.Equal(t, 5.0, frame.BottomPadding)
	assert.Same(t, firstHandle, frame.Rows[0], "row kept in view keeps its identity")
	assert.False(t, rows[0].Row().Attached())
	assert.True(t, rows[4].Row().Attached())

	again := g.Render()
	assert.Equal(t, RenderStats{Kept: 3}, again.Stats)
	assert.Equal(t, frame.Rows, again.Rows)
}

func TestRender_ReattachReusesHandle(t *testing.T) {
	g := newTestGrid(t, Options{})
	rows := insertRows(t, g, 10)
	g.SetViewport(41, 3)
	g.Render()
	handle := rows[0].Row()

	g.ScrollTo(7)
	g.Render()
	assert.False(t, handle.Attached())

	g.ScrollTo(0)
	frame := g.Render()
	assert.Same(t, handle, frame.Rows[0])
	assert.True(t, handle.Attached())
}

func TestRender_ClampsScroll(t *testing.T) {
	g := newTestGrid(t, Options{RowHeight: UniformHeight(40)})
	insertRows(t, g, 3)
	g.SetViewport(41, 100)
	g.ScrollTo(50)

	frame := g.Render()
	assert.Equal(t, 20.0, frame.ScrollTop)
	assert.Equal(t, 0.0, frame.TopPadding)
	assert.Len(t, frame.Rows, 3)
}

func TestRender_Cells(t *testing.T) {
	g := newTestGrid(t, Options{})
	parent := request("batch", 200)
	require.NoError(t, g.InsertChild(parent))
	require.NoError(t, parent.AppendChild(request("sub", 404)))
	g.SetViewport(41, 10)

	frame := g.Render()
	require.Len(t, frame.Rows, 1)
	cells := frame.Rows[0].Cells
	assert.Equal(t, GlyphCollapsed, cells[0].Disclosure)
	assert.Equal(t, 0, cells[0].Indent)
	assert.Equal(t, "200", cells[1].Text)
	assert.Empty(t, cells[1].Disclosure)

	parent.Expand()
	frame = g.Render()
	require.Len(t, frame.Rows, 2)
	assert.Equal(t, GlyphExpanded, frame.Rows[0].Cells[0].Disclosure)
	assert.Equal(t, 1, frame.Rows[1].Cells[0].Indent)
	assert.Equal(t, "sub", frame.Rows[1].Cells[0].Text)

	assert.Equal(t, GlyphExpanded+" batch", frame.Rows[0].Cells[0].Label())
	assert.Equal(t, "    sub", frame.Rows[1].Cells[0].Label())
	assert.Equal(t, "404", frame.Rows[1].Cells[1].Label())
}

func TestRender_SetValueRepaints(t *testing.T) {
	g := newTestGrid(t, Options{})
	n := request("pending", 0)
	require.NoError(t, g.InsertChild(n))
	g.SetViewport(41, 10)
	g.Render()

	n.SetValue("status", 201)
	assert.True(t, g.NeedsRender())
	frame := g.Render()
	assert.Equal(t, 1, frame.Stats.Rebuilt)
	assert.Equal(t, "201", frame.Rows[0].Cells[1].Text)
}

func TestRender_ColumnFormat(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.SetColumns([]Column{
		{ID: "size", Sortable: true, Sort: SortNumeric, Format: func(v any) string { return CellText(v) + " B" }},
	}))
	require.NoError(t, g.InsertChild(NewNode(map[string]any{"size": 512}, false)))
	g.SetViewport(20, 0)

	frame := g.Render()
	assert.Equal(t, "512 B", frame.Rows[0].Cells[0].Text)
}

func TestScheduler_CoalescesRenders(t *testing.T) {
	frames := &ManualFrames{}
	g := newTestGrid(t, Options{Scheduler: frames})
	assert.Equal(t, 1, frames.Pending())

	insertRows(t, g, 5)
	g.SetViewport(41, 3)
	g.ScrollTo(1)
	assert.Equal(t, 1, frames.Pending(), "a pending render is not scheduled twice")

	assert.Equal(t, 1, frames.Flush())
	assert.False(t, g.NeedsRender())
	assert.Equal(t, 5, g.Frame().TotalRows)
	assert.Equal(t, 1, g.Frame().Offset)

	assert.Equal(t, 0, frames.Flush())
	insertRows(t, g, 1)
	assert.Equal(t, 1, frames.Pending())
}

func TestScheduler_ExplicitRenderSatisfiesPendingFrame(t *testing.T) {
	frames := &ManualFrames{}
	g := newTestGrid(t, Options{Scheduler: frames})
	insertRows(t, g, 2)
	g.SetViewport(41, 0)
	g.Render()

	var padding []PaddingEvent
	g.OnPaddingChanged(func(e PaddingEvent) { padding = append(padding, e) })
	frames.Flush()
	assert.Empty(t, padding, "flushed frame found nothing to do")
}

func TestStickToBottom(t *testing.T) {
	g := newTestGrid(t, Options{StickToBottom: true})
	g.SetViewport(41, 3)
	insertRows(t, g, 5)

	frame := g.Render()
	assert.Equal(t, 2.0, frame.ScrollTop)
	assert.True(t, frame.AtBottom)

	insertRows(t, g, 2)
	frame = g.Render()
	assert.Equal(t, 4.0, frame.ScrollTop, "pinned to the newest row")

	g.ScrollTo(0)
	frame = g.Render()
	assert.Equal(t, 0.0, frame.ScrollTop)
	assert.False(t, frame.AtBottom)

	insertRows(t, g, 1)
	frame = g.Render()
	assert.Equal(t, 0.0, frame.ScrollTop, "user scroll is not overridden")

	g.ScrollToBottom()
	insertRows(t, g, 1)
	frame = g.Render()
	assert.Equal(t, 6.0, frame.ScrollTop)
}

func TestPaddingChangedEvents(t *testing.T) {
	g := newTestGrid(t, Options{})
	insertRows(t, g, 10)
	g.SetViewport(41, 4)

	var events []PaddingEvent
	unsubscribe := g.OnPaddingChanged(func(e PaddingEvent) { events = append(events, e) })

	g.Render()
	g.Render()
	g.ScrollTo(3)
	g.Render()
	assert.Equal(t, []PaddingEvent{{Top: 0, Bottom: 6}, {Top: 3, Bottom: 3}}, events)

	unsubscribe()
	g.ScrollTo(6)
	g.Render()
	assert.Len(t, events, 2)
}

func TestRevealNode_ScrollsMinimally(t *testing.T) {
	g := newTestGrid(t, Options{})
	rows := insertRows(t, g, 10)
	g.SetViewport(41, 3)
	g.Render()

	require.NoError(t, g.RevealNode(rows[5]))
	assert.Equal(t, 3.0, g.ScrollTop())

	require.NoError(t, g.RevealNode(rows[4]))
	assert.Equal(t, 3.0, g.ScrollTop(), "already visible")

	require.NoError(t, g.RevealNode(rows[1]))
	assert.Equal(t, 1.0, g.ScrollTop())

	assert.ErrorIs(t, g.RevealNode(request("stranger", 0)), ErrInvalidNode)
}

func TestRevealNode_ExpandsAncestors(t *testing.T) {
	g := newTestGrid(t, Options{})
	parent := request("batch", 200)
	require.NoError(t, g.InsertChild(parent))
	child := request("sub", 200)
	require.NoError(t, parent.AppendChild(child))

	require.NoError(t, g.RevealNode(child))
	assert.True(t, parent.Expanded())
	assert.Equal(t, []string{"batch", "sub"}, names(g.Flatten()))
}

func TestClear(t *testing.T) {
	g := newTestGrid(t, Options{})
	rows := insertRows(t, g, 4)
	require.NoError(t, g.Select(rows[1]))
	g.SetViewport(41, 2)
	g.ScrollTo(2)
	g.Render()

	g.Clear()
	frame := g.Render()
	assert.Empty(t, frame.Rows)
	assert.Nil(t, g.Selection().Selected())
	assert.Equal(t, 0.0, frame.ScrollTop)
	assert.Nil(t, rows[0].Grid())
}

func TestLayoutPersistence(t *testing.T) {
	store := newMemoryLayouts()
	g := newTestGrid(t, Options{ID: "network", Persistence: store})
	require.NoError(t, g.RestoreLayout())
	require.NoError(t, g.OnHeaderClick("status"))
	require.NoError(t, g.SetWeights(map[string]float64{"name": 3}))
	require.NoError(t, g.OnHeaderClick("status"))
	assert.Equal(t, 2, store.saves)

	restored := newTestGrid(t, Options{ID: "network", Persistence: store})
	require.NoError(t, restored.RestoreLayout())
	assert.Equal(t, SortState{ColumnID: "status", Direction: Descending}, restored.Sort())
	assert.Equal(t, 3.0, restored.Weights()["name"])
}

func TestSetWeights_RejectsNonPositive(t *testing.T) {
	g := newTestGrid(t, Options{})
	err := g.SetWeights(map[string]float64{"name": 2, "status": 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, 1.0, g.Weights()["name"])
}
