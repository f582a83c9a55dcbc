package capture

import (
	"fmt"

	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// ToNode builds the grid row for an entry. Batch sub-requests become
// children of the returned node.
func ToNode(e Entry) *datagrid.Node {
	n := datagrid.NewNode(e.Values(), len(e.Batch) > 0)
	for _, b := range e.Batch {
		// A detached parent accepts any detached child.
		_ = n.AppendChild(ToNode(b))
	}
	return n
}

// Feed adds entries as top-level rows. While the grid is sorted each row
// goes straight to its sorted position; otherwise rows keep arrival order.
func Feed(g *datagrid.Grid, entries []Entry) error {
	for _, e := range entries {
		n := ToNode(e)
		var err error
		if g.Ordering() == datagrid.OrderingSorted {
			err = g.InsertChildOrdered(n)
		} else {
			err = g.InsertChild(n)
		}
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", e.ID, err)
		}
	}
	return nil
}
