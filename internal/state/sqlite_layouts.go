package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// LoadLayout returns the saved column weights and sort of a grid. The
// boolean is false when nothing was ever saved for gridID.
func (s *SQLiteStore) LoadLayout(gridID string) (datagrid.Layout, bool, error) {
	if s.db == nil {
		return datagrid.Layout{}, false, fmt.Errorf("database not opened")
	}

	layout := datagrid.Layout{Weights: map[string]float64{}}
	found := false

	rows, err := s.db.Query(`SELECT column_id, weight FROM column_weights WHERE grid_id = ?`, gridID)
	if err != nil {
		return datagrid.Layout{}, false, fmt.Errorf("failed to load column weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var w float64
		if err := rows.Scan(&id, &w); err != nil {
			return datagrid.Layout{}, false, fmt.Errorf("failed to scan column weight: %w", err)
		}
		layout.Weights[id] = w
		found = true
	}
	if err := rows.Err(); err != nil {
		return datagrid.Layout{}, false, fmt.Errorf("failed to load column weights: %w", err)
	}

	var columnID, direction string
	err = s.db.QueryRow(`SELECT column_id, direction FROM grid_sort WHERE grid_id = ?`, gridID).
		Scan(&columnID, &direction)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return datagrid.Layout{}, false, fmt.Errorf("failed to load sort: %w", err)
	default:
		dir, perr := datagrid.ParseDirection(direction)
		if perr != nil {
			s.logger.Warn("ignoring stored sort", "grid", gridID, "direction", direction)
		} else {
			layout.Sort = datagrid.SortState{ColumnID: columnID, Direction: dir}
		}
		found = true
	}

	return layout, found, nil
}

// SaveLayout replaces the stored layout of a grid. An inactive sort removes
// the stored sort.
func (s *SQLiteStore) SaveLayout(gridID string, layout datagrid.Layout) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM column_weights WHERE grid_id = ?`, gridID); err != nil {
		return fmt.Errorf("failed to clear column weights: %w", err)
	}
	for id, w := range layout.Weights {
		if w <= 0 {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO column_weights (grid_id, column_id, weight) VALUES (?, ?, ?)`,
			gridID, id, w,
		); err != nil {
			return fmt.Errorf("failed to save column weight %s: %w", id, err)
		}
	}

	if layout.Sort.Active() {
		_, err = tx.Exec(
			`INSERT INTO grid_sort (grid_id, column_id, direction) VALUES (?, ?, ?)
			 ON CONFLICT (grid_id) DO UPDATE SET column_id = excluded.column_id, direction = excluded.direction`,
			gridID, layout.Sort.ColumnID, layout.Sort.Direction.String(),
		)
	} else {
		_, err = tx.Exec(`DELETE FROM grid_sort WHERE grid_id = ?`, gridID)
	}
	if err != nil {
		return fmt.Errorf("failed to save sort: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit layout: %w", err)
	}
	s.logger.Debug("layout saved", "grid", gridID, "columns", len(layout.Weights), "sort", layout.Sort.ColumnID)
	return nil
}
