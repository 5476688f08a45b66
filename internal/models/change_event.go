package models

import (
	"encoding/json"
	"time"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Row is a record as it travels on the change-feed: column name to value.
type Row map[string]any

// ID returns the row's "id" column as a string, or "" when absent.
func (r Row) ID() string {
	if r == nil {
		return ""
	}
	id, _ := r["id"].(string)
	return id
}

// ChangeEvent is one row-level notification for a table. Old carries the
// prior state (at least the id) for updates and deletes; New carries the
// written columns for inserts and updates.
type ChangeEvent struct {
	Table           string     `json:"table"`
	Type            ChangeType `json:"eventType"`
	Old             Row        `json:"old,omitempty"`
	New             Row        `json:"new,omitempty"`
	CommitTimestamp time.Time  `json:"commit_timestamp"`
}

// ToRow converts a model into its change-feed representation using the
// model's json tags.
func ToRow(v any) (Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}
