package datagrid

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueNode(v any) *Node {
	return NewNode(map[string]any{"v": v}, false)
}

func TestNumericComparator(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 200, 404, -1},
		{"equal", 404, 404.0, 0},
		{"numeric strings", "10", "9", 1},
		{"number before text", 500, "n/a", -1},
		{"text after number", "n/a", 500, 1},
		{"text falls back to string order", "abc", "abd", -1},
		{"missing sorts after numbers", nil, 1, 1},
		{"durations", 2 * time.Second, time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumericComparator("v", valueNode(tt.a), valueNode(tt.b))
			assert.Equal(t, tt.want, sign(got))
		})
	}
}

func TestNumericComparator_TotalOrder(t *testing.T) {
	nodes := []*Node{valueNode("abc"), valueNode(10), valueNode(nil), valueNode("9"), valueNode(2.5)}
	slices.SortStableFunc(nodes, ForColumn("v", NumericComparator))

	got := make([]string, len(nodes))
	for i, n := range nodes {
		got[i] = n.Text("v")
	}
	assert.Equal(t, []string{"2.5", "9", "10", "", "abc"}, got)
}

func TestStringComparator_UsesDisplayedText(t *testing.T) {
	assert.Equal(t, -1, sign(StringComparator("v", valueNode(10), valueNode(9))), "10 < 9 as text")
	assert.Equal(t, 0, sign(StringComparator("v", valueNode(true), valueNode("true"))))
}

func TestReverse(t *testing.T) {
	cmp := ForColumn("v", NumericComparator)
	a, b := valueNode(1), valueNode(2)
	assert.Equal(t, -1, sign(cmp(a, b)))
	assert.Equal(t, 1, sign(Reverse(cmp)(a, b)))
	assert.Equal(t, 0, Reverse(cmp)(a, valueNode(1)))
}

func TestComparatorRegistry(t *testing.T) {
	r := NewComparatorRegistry()
	_, ok := r.Lookup(SortString)
	assert.True(t, ok)
	_, ok = r.Lookup(SortNumeric)
	assert.True(t, ok)
	_, ok = r.Lookup("size")
	assert.False(t, ok)

	bySize := func(id string, a, b *Node) int { return NumericComparator(id, a, b) }
	require.NoError(t, r.Register("size", bySize))
	_, ok = r.Lookup("size")
	assert.True(t, ok)

	assert.ErrorIs(t, r.Register("", bySize), ErrInvalidParameter)
	assert.ErrorIs(t, r.Register("nil", nil), ErrInvalidParameter)

	other := NewComparatorRegistry()
	_, ok = other.Lookup("size")
	assert.False(t, ok, "registries do not share registrations")
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"GET", "GET"},
		{404, "404"},
		{int64(7), "7"},
		{12.5, "12.5"},
		{false, "false"},
		{1500 * time.Millisecond, "1.5s"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CellText(tt.in))
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
