package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marivant/libschedule/datekey"
)

// Recurrence is the repeat rule attached to an event.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// IsRecurring reports whether the rule produces more than one occurrence.
func (r Recurrence) IsRecurring() bool {
	switch r {
	case RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// Valid reports whether r is one of the known rules.
func (r Recurrence) Valid() bool {
	return r == RecurNone || r.IsRecurring()
}

// DefaultTitle is substituted when an event is saved without a title.
const DefaultTitle = "Untitled Event"

// Event is a single dated calendar record. A recurring series is stored as
// one record per occurrence; every record of a series carries the SeriesID
// minted when the series was created, plus the seed's Title, Recurring and
// RecurringEnd.
type Event struct {
	ID          string     `json:"id"`
	SeriesID    string     `json:"seriesId,omitempty"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Time        string     `json:"time,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Link        string     `json:"link,omitempty"`
	Recurring   Recurrence `json:"recurring"`
	// RecurringEnd is the exclusive end boundary of the series,
	// meaningful only when Recurring is not "none".
	RecurringEnd string `json:"recurringEndDate,omitempty"`
}

// Normalize fills defaulted fields in place: empty titles become
// DefaultTitle, an empty rule becomes RecurNone, and a non-recurring record
// drops any leftover end boundary.
func (e *Event) Normalize() {
	if strings.TrimSpace(e.Title) == "" {
		e.Title = DefaultTitle
	}
	if e.Recurring == "" {
		e.Recurring = RecurNone
	}
	if !e.Recurring.IsRecurring() {
		e.RecurringEnd = ""
	}
}

// Validate checks the record's field invariants. The recurrence end key is
// deliberately not checked here: an unparseable end is legal in a draft and
// substituted with a computed default before expansion.
func (e Event) Validate() error {
	if e.ID == "" {
		return &Error{Kind: ErrInvalidInput, Message: "event id is empty"}
	}
	if !datekey.Valid(e.Date) {
		return &Error{Kind: ErrInvalidDate, Message: fmt.Sprintf("event %s has invalid date key %q", e.ID, e.Date)}
	}
	if e.Time != "" {
		if err := validateClock(e.Time); err != nil {
			return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf("event %s: %v", e.ID, err)}
		}
	}
	if !e.Recurring.Valid() {
		return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf("event %s has unknown recurrence %q", e.ID, e.Recurring)}
	}
	return nil
}

// SameSeries reports whether other belongs to the same recurring series.
// Identity is the explicit SeriesID; non-recurring records (empty SeriesID)
// never match anything.
func (e Event) SameSeries(other Event) bool {
	return e.SeriesID != "" && e.SeriesID == other.SeriesID
}

// validateClock checks an "HH:MM" wall-clock value, hour 0-23.
func validateClock(s string) error {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return fmt.Errorf("invalid hour in time %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return fmt.Errorf("invalid minute in time %q", s)
	}
	return nil
}
