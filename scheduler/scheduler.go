package scheduler

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/marivant/libschedule/datekey"
	"github.com/marivant/libschedule/scheduler/recurrence"
	"github.com/marivant/libschedule/scheduler/storage"
)

// Scope selects whether an edit or delete applies to a single occurrence or
// to the entire recurring series. It is an explicit input: the UI elicits it
// from the user, the scheduler only executes it.
type Scope string

const (
	ScopeOccurrence Scope = "occurrence"
	ScopeSeries     Scope = "series"
)

// Draft carries the event fields collected by the form UI on submit.
type Draft struct {
	Title        string
	Date         string
	Time         string
	Description  string
	Location     string
	Link         string
	Recurring    storage.Recurrence
	RecurringEnd string
}

func (d Draft) event(id, seriesID string) storage.Event {
	return storage.Event{
		ID:           id,
		SeriesID:     seriesID,
		Title:        d.Title,
		Date:         d.Date,
		Time:         d.Time,
		Description:  d.Description,
		Location:     d.Location,
		Link:         d.Link,
		Recurring:    d.Recurring,
		RecurringEnd: d.RecurringEnd,
	}
}

// Scheduler resolves event submissions against the store: it classifies the
// requested mutation, expands recurring series, rejects slot conflicts, and
// commits all-or-nothing.
type Scheduler struct {
	store  *storage.Store
	engine *recurrence.Engine
	logger *slog.Logger
	newID  func() string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger; nil output is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDSource overrides the id generator for event and series ids. The
// default is uuid.NewString.
func WithIDSource(newID func() string) Option {
	return func(s *Scheduler) {
		s.newID = newID
	}
}

// New creates a Scheduler over an opened store.
func New(store *storage.Store, opts ...Option) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	s := &Scheduler{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = recurrence.NewEngine(recurrence.WithIDSource(func() string { return s.newID() }))
	return s, nil
}

// Store exposes the underlying event store for read access (listings,
// per-day lookups by the rendering collaborator).
func (s *Scheduler) Store() *storage.Store {
	return s.store
}

// CreateEvent saves a new event from a submitted draft. A recurring draft
// becomes a seed record plus one generated record per occurrence, committed
// together; a conflict anywhere in the batch aborts the whole save and
// leaves the store unchanged.
func (s *Scheduler) CreateEvent(d Draft) (storage.Event, error) {
	seed := d.event(s.newID(), "")
	seed.Normalize()
	if err := seed.Validate(); err != nil {
		return storage.Event{}, err
	}

	if !seed.Recurring.IsRecurring() {
		if c, ok := FindConflict(s.store, Candidate{Date: seed.Date, Time: seed.Time, ExcludeID: seed.ID}).Get(); ok {
			return storage.Event{}, conflictError(c)
		}
		if err := s.store.Add(seed); err != nil {
			return storage.Event{}, err
		}
		s.logger.Info("event created", "id", seed.ID, "date", seed.Date)
		return seed, nil
	}

	seed.SeriesID = s.newID()
	return s.commitSeries(seed)
}

// UpdateEvent applies an edit to the record with the given id. For a
// recurring record the scope decides between rewriting the single occurrence
// and rewriting the series; when the series edit changes the rule or end
// boundary, the series is regenerated from scratch.
func (s *Scheduler) UpdateEvent(id string, d Draft, scope Scope) error {
	orig, ok := s.store.FindByID(id).Get()
	if !ok {
		return &storage.Error{Kind: storage.ErrNotFound, Message: fmt.Sprintf("event %s not found", id)}
	}

	if !orig.Recurring.IsRecurring() || scope == ScopeOccurrence {
		return s.updateSingle(orig, d)
	}

	if d.Recurring == orig.Recurring && d.RecurringEnd == orig.RecurringEnd {
		return s.rewriteSeries(orig, d)
	}
	return s.regenerateSeries(orig, d)
}

// DeleteEvent removes the record with the given id, or its whole series for
// scope=series on a recurring record. Deleting an absent id is a no-op
// surfaced as a not_found error.
func (s *Scheduler) DeleteEvent(id string, scope Scope) error {
	rec, ok := s.store.FindByID(id).Get()
	if !ok {
		return &storage.Error{Kind: storage.ErrNotFound, Message: fmt.Sprintf("event %s not found", id)}
	}

	if rec.Recurring.IsRecurring() && scope == ScopeSeries {
		n, err := s.store.RemoveWhere(rec.SameSeries)
		if err != nil {
			return err
		}
		s.logger.Info("series deleted", "series_id", rec.SeriesID, "removed", n)
		return nil
	}

	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.logger.Info("event deleted", "id", id)
	return nil
}

// updateSingle rewrites one record in place. The stored date of a recurring
// occurrence is preserved regardless of the draft: per-occurrence edits
// cannot move an occurrence to another day.
func (s *Scheduler) updateSingle(orig storage.Event, d Draft) error {
	updated := d.event(orig.ID, orig.SeriesID)
	updated.Normalize()
	if orig.Recurring.IsRecurring() {
		updated.Date = orig.Date
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	if c, ok := FindConflict(s.store, Candidate{Date: updated.Date, Time: updated.Time, ExcludeID: orig.ID}).Get(); ok {
		return conflictError(c)
	}
	if err := s.store.Update(orig.ID, updated); err != nil {
		return err
	}
	s.logger.Info("event updated", "id", orig.ID, "date", updated.Date)
	return nil
}

// rewriteSeries applies a series-scoped edit that keeps the rule and end
// boundary: every record of the series takes the new fields while keeping
// its own id and date.
func (s *Scheduler) rewriteSeries(orig storage.Event, d Draft) error {
	snapshot := s.store.Snapshot()
	rewritten := 0
	for _, member := range snapshot {
		if !orig.SameSeries(member) {
			continue
		}
		updated := d.event(member.ID, member.SeriesID)
		updated.Normalize()
		updated.Date = member.Date
		if err := updated.Validate(); err != nil {
			return s.abort(snapshot, err)
		}
		if err := s.store.Update(member.ID, updated); err != nil {
			return s.abort(snapshot, err)
		}
		if c, ok := FindConflict(s.store, Candidate{
			Date:            updated.Date,
			Time:            updated.Time,
			ExcludeID:       member.ID,
			ExcludeSeriesID: orig.SeriesID,
		}).Get(); ok {
			return s.abort(snapshot, conflictError(c))
		}
		rewritten++
	}
	s.logger.Info("series updated", "series_id", orig.SeriesID, "records", rewritten)
	return nil
}

// regenerateSeries applies a series-scoped edit that changes the rule or end
// boundary: the old records are removed and a fresh series is generated from
// the draft. A conflict in the new batch rolls everything back.
func (s *Scheduler) regenerateSeries(orig storage.Event, d Draft) error {
	snapshot := s.store.Snapshot()
	if _, err := s.store.RemoveWhere(orig.SameSeries); err != nil {
		return s.abort(snapshot, err)
	}

	seed := d.event(s.newID(), s.newID())
	seed.Normalize()
	if err := seed.Validate(); err != nil {
		return s.abort(snapshot, err)
	}
	if !seed.Recurring.IsRecurring() {
		// The edit turned the series into a one-off record.
		if c, ok := FindConflict(s.store, Candidate{Date: seed.Date, Time: seed.Time, ExcludeID: seed.ID}).Get(); ok {
			return s.abort(snapshot, conflictError(c))
		}
		seed.SeriesID = ""
		if err := s.store.Add(seed); err != nil {
			return s.abort(snapshot, err)
		}
		s.logger.Info("series collapsed to single event", "old_series_id", orig.SeriesID, "id", seed.ID)
		return nil
	}

	if _, err := s.commitSeries(seed); err != nil {
		return s.abort(snapshot, err)
	}
	return nil
}

// commitSeries inserts a recurring seed and its generated occurrences,
// conflict-checking each record against the store as it grows. On failure
// the store is restored to its state at entry; callers that mutated the
// store beforehand roll back further themselves. Returns the committed seed
// (its end boundary may have been substituted).
func (s *Scheduler) commitSeries(seed storage.Event) (storage.Event, error) {
	start, err := datekey.Parse(seed.Date)
	if err != nil {
		return storage.Event{}, &storage.Error{Kind: storage.ErrInvalidDate, Message: fmt.Sprintf("series start %q", seed.Date), Err: err}
	}
	end := s.endBoundary(seed, start)
	seed.RecurringEnd = datekey.ToKey(end)

	occurrences, err := s.engine.Expand(seed, start, end)
	if err != nil {
		return storage.Event{}, err
	}

	snapshot := s.store.Snapshot()
	batch := append([]storage.Event{seed}, occurrences...)
	for _, ev := range batch {
		if c, ok := FindConflict(s.store, Candidate{Date: ev.Date, Time: ev.Time, ExcludeID: ev.ID}).Get(); ok {
			return storage.Event{}, s.abort(snapshot, conflictError(c))
		}
		if err := s.store.Add(ev); err != nil {
			return storage.Event{}, s.abort(snapshot, err)
		}
	}
	s.logger.Info("series created",
		"series_id", seed.SeriesID,
		"rule", seed.Recurring,
		"records", len(batch))
	return seed, nil
}

// endBoundary resolves the series end. An unparseable or missing end key is
// substituted with one year after the start.
func (s *Scheduler) endBoundary(seed storage.Event, start time.Time) time.Time {
	end, err := datekey.Parse(seed.RecurringEnd)
	if err != nil {
		fallback := recurrence.DefaultEnd(start)
		s.logger.Warn("unparseable series end, substituting default",
			"end", seed.RecurringEnd,
			"substituted", datekey.ToKey(fallback))
		return fallback
	}
	return end
}

// abort rolls the store back to its pre-operation snapshot and returns the
// causing error. Restore rewrites the port, so the persisted blob matches
// the pre-operation state as well.
func (s *Scheduler) abort(snapshot []storage.Event, cause error) error {
	if err := s.store.Restore(snapshot); err != nil {
		s.logger.Error("rollback failed", "error", err)
		return fmt.Errorf("rollback after %v: %w", cause, err)
	}
	return cause
}

func conflictError(c storage.Event) *storage.Error {
	return &storage.Error{
		Kind:        storage.ErrConflict,
		Message:     fmt.Sprintf("%q already occupies %s %s", c.Title, c.Date, c.Time),
		Conflicting: &c,
	}
}
