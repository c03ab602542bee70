// Package datekey converts between calendar dates and their canonical
// string keys. Keys are the sole date representation used for storage,
// comparison and grouping; because they are zero-padded, lexicographic
// order equals chronological order.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the canonical key format, e.g. "2024-01-31".
const Layout = "2006-01-02"

// ToKey returns the canonical key for the calendar date of t.
// The time-of-day and location of t are ignored.
func ToKey(t time.Time) string {
	return t.Format(Layout)
}

// Parse decodes a canonical key into the corresponding date at
// midnight UTC. Malformed keys return an error.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed canonical date key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}
