package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marivant/libschedule/scheduler/storage"
	"github.com/marivant/libschedule/scheduler/storage/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Port) {
	t.Helper()
	port := memory.New()
	l, err := OpenLedger(port, nil)
	require.NoError(t, err)
	return l, port
}

func TestLedger_Book(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.Book("2024-03-05", "Vacation"))

	reason, ok := l.Reason("2024-03-05").Get()
	require.True(t, ok)
	assert.Equal(t, "Vacation", reason)
	assert.True(t, l.Reason("2024-03-06").IsAbsent())
}

// Booking an already-booked date is reported as a conflict carrying the
// existing reason; the UI answers with the cancel-confirmation dialog
// instead of writing a second booking.
func TestLedger_BookTwice(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.Book("2024-03-05", "Vacation"))

	err := l.Book("2024-03-05", "Conference")
	require.Error(t, err)
	assert.True(t, storage.IsKind(err, storage.ErrConflict))
	assert.Contains(t, err.Error(), "Vacation")

	reason, _ := l.Reason("2024-03-05").Get()
	assert.Equal(t, "Vacation", reason, "original booking untouched")
}

func TestLedger_BookValidation(t *testing.T) {
	l, _ := newTestLedger(t)

	err := l.Book("2024-3-5", "Vacation")
	assert.True(t, storage.IsKind(err, storage.ErrInvalidDate))

	err = l.Book("2024-03-05", "   ")
	assert.True(t, storage.IsKind(err, storage.ErrInvalidInput))

	assert.Equal(t, 0, l.Len())
}

func TestLedger_Cancel(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.Book("2024-03-05", "Vacation"))

	require.NoError(t, l.Cancel("2024-03-05"))
	assert.True(t, l.Reason("2024-03-05").IsAbsent())

	err := l.Cancel("2024-03-05")
	assert.True(t, storage.IsKind(err, storage.ErrNotFound))
}

func TestLedger_PersistsAcrossReopen(t *testing.T) {
	l, port := newTestLedger(t)
	require.NoError(t, l.Book("2024-03-05", "Vacation"))
	require.NoError(t, l.Book("2024-01-20", "Inventory"))

	reopened, err := OpenLedger(port, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())
	reason, _ := reopened.Reason("2024-03-05").Get()
	assert.Equal(t, "Vacation", reason)
}

func TestLedger_DatesSorted(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.Book("2024-03-05", "Vacation"))
	require.NoError(t, l.Book("2024-01-20", "Inventory"))
	require.NoError(t, l.Book("2024-02-11", "Maintenance"))

	assert.Equal(t, []string{"2024-01-20", "2024-02-11", "2024-03-05"}, l.Dates())
}

// Bookings and events live in separate blobs with independent lifecycles.
func TestLedger_IndependentFromEventStore(t *testing.T) {
	port := memory.New()
	l, err := OpenLedger(port, nil)
	require.NoError(t, err)
	st, err := storage.OpenStore(port, nil)
	require.NoError(t, err)
	sched, err := New(st)
	require.NoError(t, err)

	require.NoError(t, l.Book("2024-03-05", "Vacation"))
	_, err = sched.CreateEvent(Draft{Title: "Dentist", Date: "2024-03-05", Time: "10:00"})
	require.NoError(t, err, "a booking does not occupy an event slot")

	require.NoError(t, l.Cancel("2024-03-05"))
	assert.Equal(t, 1, st.Len(), "cancelling a booking leaves events alone")
}
