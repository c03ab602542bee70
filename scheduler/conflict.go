package scheduler

import (
	"github.com/samber/mo"

	"github.com/marivant/libschedule/scheduler/storage"
)

// Candidate describes a slot about to be occupied.
type Candidate struct {
	Date string
	Time string
	// ExcludeID is the id of the record being saved, so a record never
	// conflicts with itself.
	ExcludeID string
	// ExcludeSeriesID, when set, additionally skips every record of that
	// series. Series-wide rewrites use it: members of one series sit on
	// distinct dates, so they cannot collide with each other.
	ExcludeSeriesID string
}

// FindConflict returns the first record, in store iteration order, that
// occupies the candidate's exact date and time slot. Untimed candidates
// never conflict.
func FindConflict(st *storage.Store, c Candidate) mo.Option[storage.Event] {
	if c.Time == "" {
		return mo.None[storage.Event]()
	}
	for _, ev := range st.All() {
		if ev.Date != c.Date || ev.Time != c.Time || ev.ID == c.ExcludeID {
			continue
		}
		if c.ExcludeSeriesID != "" && ev.SeriesID == c.ExcludeSeriesID {
			continue
		}
		return mo.Some(ev)
	}
	return mo.None[storage.Event]()
}
