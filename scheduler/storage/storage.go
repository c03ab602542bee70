// Package storage holds the calendar's persisted data model: the event and
// booking records, the ordered in-memory event Store, and the Port interface
// that mirrors state to a key-value blob backend after every mutation.
package storage

import (
	"errors"
	"fmt"
)

// Storage keys used with a Port. Each key maps to one self-contained JSON
// blob that is read once at startup and overwritten wholesale after every
// mutation.
const (
	// KeyEvents holds the ordered JSON array of Event records.
	KeyEvents = "calendarEvents"
	// KeyBookings holds the JSON object mapping date key to booking reason.
	KeyBookings = "calendarBookings"
)

// Port connects the engine to its persistence backend. Implementations are
// synchronous; a write that returns nil is considered durable.
type Port interface {
	// Load returns the blob stored under key, or (nil, nil) when the key
	// has never been written.
	Load(key string) ([]byte, error)
	// Save overwrites the blob stored under key.
	Save(key string, data []byte) error
}

// Error kinds
type ErrorKind string

const (
	ErrInvalidDate  ErrorKind = "invalid_date"
	ErrInvalidInput ErrorKind = "invalid_input"
	ErrNotFound     ErrorKind = "not_found"
	ErrConflict     ErrorKind = "conflict"
	ErrDuplicateID  ErrorKind = "duplicate_id"
)

// Error represents a scheduling or storage error.
type Error struct {
	Kind    ErrorKind
	Message string
	// Conflicting identifies the blocking record for ErrConflict, so the
	// UI can report its title, date and time.
	Conflicting *Event
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// AsError unwraps err to an *Error, or nil when it is not one.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return nil
}
