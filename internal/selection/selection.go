// Package selection tracks which measurement in a rendered list is being
// viewed or edited. A State holds at most one record in exactly one mode, so
// "viewed" and "edited" can never both be set.
package selection

import (
	"encoding/json"
	"fmt"

	"fabtech_dashboard/internal/models"
)

type Kind string

const (
	None    Kind = "none"
	Viewing Kind = "viewing"
	Editing Kind = "editing"
)

// State is immutable; transitions return a new value. The zero value is None.
type State struct {
	kind   Kind
	record models.Measurement
}

func (s State) Kind() Kind {
	if s.kind == "" {
		return None
	}
	return s.kind
}

// Record is the selected snapshot, if any.
func (s State) Record() (models.Measurement, bool) {
	if s.Kind() == None {
		return models.Measurement{}, false
	}
	return s.record, true
}

// Viewed returns the record shown read-only, or nil.
func (s State) Viewed() *models.Measurement {
	if s.kind != Viewing {
		return nil
	}
	rec := s.record
	return &rec
}

// Edited returns the record loaded into the edit form, or nil.
func (s State) Edited() *models.Measurement {
	if s.kind != Editing {
		return nil
	}
	rec := s.record
	return &rec
}

// View toggles rec as the viewed record, dropping any edit.
func (s State) View(rec models.Measurement) State {
	return s.toggle(Viewing, rec)
}

// Edit toggles rec as the edited record, dropping any view.
func (s State) Edit(rec models.Measurement) State {
	return s.toggle(Editing, rec)
}

// Clear is used for cancel and after a successful edit submission.
func (s State) Clear() State {
	return State{}
}

// Highlighted reports whether the list entry with id renders highlighted.
func (s State) Highlighted(id string) bool {
	return s.Kind() != None && s.record.ID == id
}

func (s State) toggle(kind Kind, rec models.Measurement) State {
	if s.kind == kind && s.record.ID == rec.ID {
		return State{}
	}
	return State{kind: kind, record: rec}
}

type wireState struct {
	Kind   Kind                `json:"kind"`
	Record *models.Measurement `json:"record,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	w := wireState{Kind: s.Kind()}
	if rec, ok := s.Record(); ok {
		w.Record = &rec
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "", None:
		*s = State{}
	case Viewing, Editing:
		if w.Record == nil {
			return fmt.Errorf("selection %q without record", w.Kind)
		}
		*s = State{kind: w.Kind, record: *w.Record}
	default:
		return fmt.Errorf("unknown selection kind %q", w.Kind)
	}
	return nil
}
