package livesync

import (
	"context"
	"fmt"

	"fabtech_dashboard/internal/models"
)

// Subscription is a live change-feed for one table.
type Subscription interface {
	Events() <-chan models.ChangeEvent
	Close() error
}

// Fetcher loads the initial rows.
type Fetcher func(ctx context.Context) ([]models.Row, error)

// Filter decides whether an event concerns the collection.
type Filter func(ev models.ChangeEvent) bool

type UpdateKind string

const (
	UpdateSnapshot UpdateKind = "snapshot"
	UpdateChange   UpdateKind = "change"
)

// Update is what Run hands to its emitter: the collection after the initial
// fetch, or after one applied event.
type Update struct {
	Kind  UpdateKind          `json:"kind"`
	Event *models.ChangeEvent `json:"event,omitempty"`
	Rows  []models.Row        `json:"rows"`
}

// ForParent keeps every update and delete (they address rows by id, so rows
// outside the collection are never matched) but only inserts whose column
// equals parentID.
func ForParent(column, parentID string) Filter {
	return func(ev models.ChangeEvent) bool {
		if ev.Type != models.ChangeInsert {
			return true
		}
		v, _ := ev.New[column].(string)
		return v == parentID
	}
}

// Run drives one live collection until ctx ends, the feed closes, or emit
// fails. sub must already be subscribed when Run is called: events that
// arrive while fetch is in flight are held back and replayed on top of the
// snapshot, so a delta is never overwritten by an older fetch result.
// Run closes sub before returning.
func Run(ctx context.Context, sub Subscription, fetch Fetcher, keep Filter, emit func(Update) error) error {
	defer sub.Close()

	type snapshot struct {
		rows []models.Row
		err  error
	}
	fetched := make(chan snapshot, 1)
	go func() {
		rows, err := fetch(ctx)
		fetched <- snapshot{rows: rows, err: err}
	}()

	var (
		coll    *Collection
		pending []models.ChangeEvent
		events  = sub.Events()
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap := <-fetched:
			fetched = nil
			if snap.err != nil {
				return fmt.Errorf("initial fetch: %w", snap.err)
			}
			coll = NewCollection(snap.rows)
			for _, ev := range pending {
				if !seenInsert(coll, ev) {
					coll.Apply(ev)
				}
			}
			pending = nil
			if err := emit(Update{Kind: UpdateSnapshot, Rows: coll.Rows()}); err != nil {
				return err
			}

		case ev, ok := <-events:
			if !ok {
				// The feed also closes when ctx ends; report why.
				return ctx.Err()
			}
			if keep != nil && !keep(ev) {
				continue
			}
			if coll == nil {
				pending = append(pending, ev)
				continue
			}
			// A row committed just before the fetch shows up in the snapshot
			// and then again as its own insert event.
			if seenInsert(coll, ev) {
				continue
			}
			coll.Apply(ev)
			if err := emit(Update{Kind: UpdateChange, Event: &ev, Rows: coll.Rows()}); err != nil {
				return err
			}
		}
	}
}

func seenInsert(coll *Collection, ev models.ChangeEvent) bool {
	return ev.Type == models.ChangeInsert && coll.Contains(ev.New.ID())
}
