/*
Package scheduler is the event scheduling core of a single-client calendar
widget: it models one-off and recurring events, expands recurrence rules into
concrete dated records, rejects slot conflicts, and resolves edits and
deletions at occurrence or series scope. A separate booking Ledger keeps the
widget's simpler date-to-reason bookings.

# Basic Usage

Open a store over a persistence port and hand it to a Scheduler:

	port := memory.New()
	st, err := storage.OpenStore(port, nil)
	if err != nil {
		log.Fatal(err)
	}
	sched, err := scheduler.New(st)
	if err != nil {
		log.Fatal(err)
	}

	seed, err := sched.CreateEvent(scheduler.Draft{
		Title:        "Standup",
		Date:         "2024-01-01",
		Time:         "09:00",
		Recurring:    storage.RecurDaily,
		RecurringEnd: "2024-01-04",
	})

A recurring draft is stored as one record per occurrence: the seed on the
start date plus a generated record for every later date strictly before the
end boundary. All records of a series share a SeriesID minted at creation.

# Scope

Edits and deletes on a recurring record take an explicit Scope chosen by the
user: ScopeOccurrence touches only the addressed record (its date is never
changed), ScopeSeries rewrites or removes every record of the series. A
series edit that changes the rule or the end boundary regenerates the series
from scratch.

# Conflicts and atomicity

Two timed records may not share a date and time slot; untimed records never
conflict. Batch operations (series creation, series regeneration) are
all-or-nothing: the first conflict aborts the batch, the store and its
persisted blob are rolled back to the pre-operation state, and the returned
conflict error carries the blocking record for the UI to display.

# Persistence

All state is mirrored through the storage.Port blob interface after every
mutation, under the keys "calendarEvents" and "calendarBookings". The memory
and diskv subpackages provide ready-made ports.

The engine is synchronous and single-threaded: each operation runs to
completion on the calling goroutine, so there is no locking.
*/
package scheduler
