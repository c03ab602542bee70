package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/mo"

	"github.com/marivant/libschedule/datekey"
	"github.com/marivant/libschedule/scheduler/storage"
)

// Ledger is the date-to-reason booking map, the widget's older manual
// booking feature. It lives next to the event store but shares nothing with
// it: at most one booking per date, no recurrence, its own storage key.
type Ledger struct {
	port     storage.Port
	logger   *slog.Logger
	bookings map[string]string
}

// OpenLedger loads the booking map from the port. A missing blob yields an
// empty ledger. A nil logger discards log output.
func OpenLedger(port storage.Port, logger *slog.Logger) (*Ledger, error) {
	if port == nil {
		return nil, fmt.Errorf("port is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	l := &Ledger{port: port, logger: logger, bookings: make(map[string]string)}

	data, err := port.Load(storage.KeyBookings)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", storage.KeyBookings, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &l.bookings); err != nil {
			return nil, fmt.Errorf("decode %s: %w", storage.KeyBookings, err)
		}
	}
	return l, nil
}

// Reason returns the booking reason recorded for the date, if any.
func (l *Ledger) Reason(dateKey string) mo.Option[string] {
	if reason, ok := l.bookings[dateKey]; ok {
		return mo.Some(reason)
	}
	return mo.None[string]()
}

// Book records a reason for the date. Booking an already-booked date fails
// with a conflict carrying the existing reason; the UI turns that into the
// cancel-confirmation dialog rather than a new booking.
func (l *Ledger) Book(dateKey, reason string) error {
	if !datekey.Valid(dateKey) {
		return &storage.Error{Kind: storage.ErrInvalidDate, Message: fmt.Sprintf("invalid booking date %q", dateKey)}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &storage.Error{Kind: storage.ErrInvalidInput, Message: "booking reason is empty"}
	}
	if existing, ok := l.bookings[dateKey]; ok {
		return &storage.Error{
			Kind:    storage.ErrConflict,
			Message: fmt.Sprintf("%s is already booked for %q", dateKey, existing),
		}
	}
	l.bookings[dateKey] = reason
	if err := l.save(); err != nil {
		delete(l.bookings, dateKey)
		return err
	}
	l.logger.Info("date booked", "date", dateKey)
	return nil
}

// Cancel removes the booking for the date. Cancelling an unbooked date is a
// no-op surfaced as a not_found error.
func (l *Ledger) Cancel(dateKey string) error {
	existing, ok := l.bookings[dateKey]
	if !ok {
		return &storage.Error{Kind: storage.ErrNotFound, Message: fmt.Sprintf("no booking on %s", dateKey)}
	}
	delete(l.bookings, dateKey)
	if err := l.save(); err != nil {
		l.bookings[dateKey] = existing
		return err
	}
	l.logger.Info("booking cancelled", "date", dateKey)
	return nil
}

// Dates returns the booked date keys in chronological order.
func (l *Ledger) Dates() []string {
	out := make([]string, 0, len(l.bookings))
	for k := range l.bookings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bookings.
func (l *Ledger) Len() int {
	return len(l.bookings)
}

func (l *Ledger) save() error {
	data, err := json.Marshal(l.bookings)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.KeyBookings, err)
	}
	if err := l.port.Save(storage.KeyBookings, data); err != nil {
		return fmt.Errorf("save %s: %w", storage.KeyBookings, err)
	}
	return nil
}
