// Package livesync keeps a locally held list of rows consistent with a table
// by applying change-feed deltas on top of one initial fetch.
package livesync

import "fabtech_dashboard/internal/models"

// Apply folds one change event into rows and returns the new list.
// Inserts append in arrival order, updates merge the event's columns into
// the row matched by the prior-state id, deletes drop that row. rows is not
// modified.
func Apply(rows []models.Row, ev models.ChangeEvent) []models.Row {
	switch ev.Type {
	case models.ChangeInsert:
		if ev.New == nil {
			return rows
		}
		out := make([]models.Row, len(rows), len(rows)+1)
		copy(out, rows)
		return append(out, copyRow(ev.New))
	case models.ChangeUpdate:
		id := ev.Old.ID()
		out := make([]models.Row, len(rows))
		for i, row := range rows {
			if row.ID() == id {
				merged := copyRow(row)
				for k, v := range ev.New {
					merged[k] = v
				}
				row = merged
			}
			out[i] = row
		}
		return out
	case models.ChangeDelete:
		id := ev.Old.ID()
		out := make([]models.Row, 0, len(rows))
		for _, row := range rows {
			if row.ID() != id {
				out = append(out, row)
			}
		}
		return out
	}
	return rows
}

// Collection is a mutable holder around Apply.
type Collection struct {
	rows []models.Row
}

func NewCollection(rows []models.Row) *Collection {
	return &Collection{rows: append([]models.Row(nil), rows...)}
}

func (c *Collection) Apply(ev models.ChangeEvent) {
	c.rows = Apply(c.rows, ev)
}

func (c *Collection) Contains(id string) bool {
	for _, row := range c.rows {
		if row.ID() == id {
			return true
		}
	}
	return false
}

func (c *Collection) Len() int {
	return len(c.rows)
}

func (c *Collection) Rows() []models.Row {
	return append([]models.Row(nil), c.rows...)
}

func copyRow(row models.Row) models.Row {
	out := make(models.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
