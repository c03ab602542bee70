package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/samber/mo"
)

// Store is the ordered in-memory event collection, mirrored to a Port.
// Records keep their insertion order; every mutating operation writes the
// full collection back to the port before returning. The store is owned by
// the calling goroutine and performs no locking.
type Store struct {
	port   Port
	logger *slog.Logger
	events []Event
}

// OpenStore loads the event collection from the port. A missing blob yields
// an empty store. A nil logger discards log output.
func OpenStore(port Port, logger *slog.Logger) (*Store, error) {
	if port == nil {
		return nil, fmt.Errorf("port is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Store{port: port, logger: logger}

	data, err := port.Load(KeyEvents)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyEvents, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.events); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyEvents, err)
		}
	}

	s.logger.Debug("event store opened", "events", len(s.events))
	return s, nil
}

// Add inserts a record at the end of the collection.
func (s *Store) Add(ev Event) error {
	if s.indexOf(ev.ID) >= 0 {
		return &Error{Kind: ErrDuplicateID, Message: fmt.Sprintf("event id %s already present", ev.ID)}
	}
	s.events = append(s.events, ev)
	return s.save()
}

// Update replaces the record with the given id in place; its position in
// the collection is retained. The replacement's ID is forced to id.
func (s *Store) Update(id string, ev Event) error {
	i := s.indexOf(id)
	if i < 0 {
		return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("event %s not found", id)}
	}
	ev.ID = id
	s.events[i] = ev
	return s.save()
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op reported as a not_found error.
func (s *Store) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("event %s not found", id)}
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return s.save()
}

// RemoveWhere deletes every record matching pred and returns the count
// removed. The port is rewritten only when something matched.
func (s *Store) RemoveWhere(pred func(Event) bool) (int, error) {
	kept := s.events[:0]
	removed := 0
	for _, ev := range s.events {
		if pred(ev) {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save()
}

// FindByID returns the record with the given id, if present.
func (s *Store) FindByID(id string) mo.Option[Event] {
	if i := s.indexOf(id); i >= 0 {
		return mo.Some(s.events[i])
	}
	return mo.None[Event]()
}

// FindByDate returns the records on the given date key, in insertion order.
func (s *Store) FindByDate(dateKey string) []Event {
	var out []Event
	for _, ev := range s.events {
		if ev.Date == dateKey {
			out = append(out, ev)
		}
	}
	return out
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// AllSortedByDate returns a copy of the collection sorted by date key
// ascending; records on the same date keep their insertion order. Date keys
// are zero-padded, so string comparison is chronological.
func (s *Store) AllSortedByDate() []Event {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.events)
}

// Snapshot captures the current record sequence for a later Restore.
func (s *Store) Snapshot() []Event {
	return s.All()
}

// Restore reinstates a previously captured snapshot and rewrites the port.
// Used to roll a failed batch back to its pre-operation state.
func (s *Store) Restore(snapshot []Event) error {
	s.events = make([]Event, len(snapshot))
	copy(s.events, snapshot)
	return s.save()
}

func (s *Store) indexOf(id string) int {
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	data, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyEvents, err)
	}
	if err := s.port.Save(KeyEvents, data); err != nil {
		return fmt.Errorf("save %s: %w", KeyEvents, err)
	}
	s.logger.Debug("event store saved", "events", len(s.events))
	return nil
}
