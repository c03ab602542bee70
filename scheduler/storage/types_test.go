package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Normalize(t *testing.T) {
	ev := Event{ID: "a", Date: "2024-01-01"}
	ev.Normalize()
	assert.Equal(t, DefaultTitle, ev.Title)
	assert.Equal(t, RecurNone, ev.Recurring)

	ev = Event{ID: "a", Title: "  ", Date: "2024-01-01"}
	ev.Normalize()
	assert.Equal(t, DefaultTitle, ev.Title)

	ev = Event{ID: "a", Title: "Kept", Date: "2024-01-01", Recurring: RecurWeekly, RecurringEnd: "2024-06-01"}
	ev.Normalize()
	assert.Equal(t, "Kept", ev.Title)
	assert.Equal(t, RecurWeekly, ev.Recurring)
	assert.Equal(t, "2024-06-01", ev.RecurringEnd)

	ev = Event{ID: "a", Date: "2024-01-01", RecurringEnd: "2024-06-01"}
	ev.Normalize()
	assert.Empty(t, ev.RecurringEnd, "non-recurring records drop the end boundary")
}

func TestEvent_Validate(t *testing.T) {
	valid := Event{ID: "a", Title: "Ok", Date: "2024-01-01", Time: "09:30", Recurring: RecurNone}

	tests := []struct {
		name   string
		mutate func(*Event)
		kind   ErrorKind
	}{
		{name: "valid", mutate: func(*Event) {}},
		{name: "untimed is valid", mutate: func(e *Event) { e.Time = "" }},
		{name: "midnight boundary", mutate: func(e *Event) { e.Time = "00:00" }},
		{name: "last hour", mutate: func(e *Event) { e.Time = "23:59" }},
		{name: "missing id", mutate: func(e *Event) { e.ID = "" }, kind: ErrInvalidInput},
		{name: "bad date", mutate: func(e *Event) { e.Date = "2024-1-1" }, kind: ErrInvalidDate},
		{name: "hour out of range", mutate: func(e *Event) { e.Time = "24:00" }, kind: ErrInvalidInput},
		{name: "minute out of range", mutate: func(e *Event) { e.Time = "12:60" }, kind: ErrInvalidInput},
		{name: "missing colon", mutate: func(e *Event) { e.Time = "0930" }, kind: ErrInvalidInput},
		{name: "unpadded hour", mutate: func(e *Event) { e.Time = "9:30" }, kind: ErrInvalidInput},
		{name: "unknown rule", mutate: func(e *Event) { e.Recurring = "yearly" }, kind: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			err := ev.Validate()
			if tt.kind == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsKind(err, tt.kind), "got %v", err)
			}
		})
	}
}

func TestEvent_SameSeries(t *testing.T) {
	a := Event{ID: "a", SeriesID: "s1"}
	b := Event{ID: "b", SeriesID: "s1"}
	c := Event{ID: "c", SeriesID: "s2"}
	single := Event{ID: "d"}

	assert.True(t, a.SameSeries(b))
	assert.False(t, a.SameSeries(c))
	assert.False(t, single.SameSeries(Event{ID: "e"}), "empty series ids never match")
}

func TestError_KindHelpers(t *testing.T) {
	inner := &Error{Kind: ErrConflict, Message: "slot taken", Conflicting: &Event{ID: "x"}}
	wrapped := fmt.Errorf("save event: %w", inner)

	assert.True(t, IsKind(wrapped, ErrConflict))
	assert.False(t, IsKind(wrapped, ErrNotFound))
	assert.False(t, IsKind(errors.New("plain"), ErrConflict))

	got := AsError(wrapped)
	assert.NotNil(t, got)
	assert.Equal(t, "x", got.Conflicting.ID)
	assert.Nil(t, AsError(errors.New("plain")))
}
