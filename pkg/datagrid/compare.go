package datagrid

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Comparator orders two nodes: negative when a sorts first, zero when
// they tie, positive when b sorts first.
type Comparator func(a, b *Node) int

// ColumnComparator orders two nodes by the value of one column.
type ColumnComparator func(columnID string, a, b *Node) int

// Names of the built-in comparators.
const (
	SortString  = "string"
	SortNumeric = "numeric"
)

// ComparatorRegistry maps comparator names to implementations. Each grid
// owns one, so registrations never leak between grids.
type ComparatorRegistry struct {
	byName map[string]ColumnComparator
}

// NewComparatorRegistry returns a registry holding the string and numeric
// comparators.
func NewComparatorRegistry() *ComparatorRegistry {
	return &ComparatorRegistry{
		byName: map[string]ColumnComparator{
			SortString:  StringComparator,
			SortNumeric: NumericComparator,
		},
	}
}

// Register adds or replaces a named comparator.
func (r *ComparatorRegistry) Register(name string, fn ColumnComparator) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidParameterError{Name: "name", Value: name, Reason: "comparator name must not be empty"}
	}
	if fn == nil {
		return &InvalidParameterError{Name: "comparator", Value: name, Reason: "comparator must not be nil"}
	}
	r.byName[name] = fn
	return nil
}

// Lookup returns the comparator registered under name.
func (r *ComparatorRegistry) Lookup(name string) (ColumnComparator, bool) {
	fn, ok := r.byName[name]
	return fn, ok
}

// StringComparator compares the displayed text of a column.
func StringComparator(columnID string, a, b *Node) int {
	return strings.Compare(a.Text(columnID), b.Text(columnID))
}

// NumericComparator compares a column numerically. Values that are not
// numbers sort after all numbers and compare by text among themselves,
// which keeps the order total and deterministic.
func NumericComparator(columnID string, a, b *Node) int {
	av, aok := numericValue(a.Value(columnID))
	bv, bok := numericValue(b.Value(columnID))
	switch {
	case aok && bok:
		return cmp.Compare(av, bv)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a.Text(columnID), b.Text(columnID))
	}
}

// Reverse flips a comparator. Ties stay ties, so a stable sort keeps their
// relative order.
func Reverse(c Comparator) Comparator {
	return func(a, b *Node) int { return c(b, a) }
}

// ForColumn binds a column comparator to one column.
func ForColumn(columnID string, c ColumnComparator) Comparator {
	return func(a, b *Node) int { return c(columnID, a, b) }
}

func numericValue(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case time.Duration:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CellText renders a cell value as displayed text.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
