// Package recurrence expands a recurring seed event into its concrete
// occurrence records.
package recurrence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marivant/libschedule/datekey"
	"github.com/marivant/libschedule/scheduler/storage"
)

// Engine generates occurrence records from a recurrence rule.
type Engine struct {
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDSource overrides the id generator used for occurrence records.
// The default is uuid.NewString.
func WithIDSource(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine creates a recurrence engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Next returns the occurrence date following t under the given rule, and
// whether the rule advances at all (false for "none").
//
// Monthly stepping is raw calendar arithmetic: the day-of-month is kept and
// normalized when the target month is shorter, so Jan 31 + 1 month lands in
// early March rather than being clamped to Feb 28/29.
func (e *Engine) Next(rule storage.Recurrence, t time.Time) (time.Time, bool) {
	switch rule {
	case storage.RecurDaily:
		return t.AddDate(0, 0, 1), true
	case storage.RecurWeekly:
		return t.AddDate(0, 0, 7), true
	case storage.RecurMonthly:
		return t.AddDate(0, 1, 0), true
	}
	return t, false
}

// DefaultEnd is the end boundary substituted when a series is saved with a
// missing or unparseable end date: one year after the start.
func DefaultEnd(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

// Expand generates the occurrence records of a recurring seed, in date
// order. Occurrences are strictly after start and strictly before end; the
// start date itself is not generated (the seed record covers it). Each
// record is a clone of the seed with a fresh id and its own date key. A
// non-recurring seed yields an empty sequence.
func (e *Engine) Expand(seed storage.Event, start, end time.Time) ([]storage.Event, error) {
	if !seed.Recurring.Valid() {
		return nil, &storage.Error{
			Kind:    storage.ErrInvalidInput,
			Message: fmt.Sprintf("unknown recurrence %q", seed.Recurring),
		}
	}
	if !seed.Recurring.IsRecurring() {
		return nil, nil
	}

	var out []storage.Event
	current := start
	for {
		next, ok := e.Next(seed.Recurring, current)
		if !ok || !next.Before(end) {
			return out, nil
		}
		occ := seed
		occ.ID = e.newID()
		occ.Date = datekey.ToKey(next)
		out = append(out, occ)
		current = next
	}
}
