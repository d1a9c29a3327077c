// Package schedule holds the slot bucketing rules: which calendar date a new
// registration lands on, and the structured bucket key.
package schedule

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bonselink/inspections/internal/domain"
)

// Registrations at or after this local hour land in the next day's bucket.
const CutoffHour = 18

// BucketDate returns the calendar date (midnight, in now's location) a slot
// registered at `now` belongs to.
func BucketDate(now time.Time) time.Time {
	y, m, d := now.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if now.Hour() >= CutoffHour {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// LookupDates returns the two bucket dates an availability lookup must union:
// today's and tomorrow's. A slot registered after the cutoff sits in tomorrow's
// bucket but must still be visible to a client browsing "today".
func LookupDates(now time.Time) (today, tomorrow time.Time) {
	y, m, d := now.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return today, today.AddDate(0, 0, 1)
}

const keySeparator = "|"

// Key identifies a bucket of inspection slots.
type Key struct {
	Date      time.Time
	Warehouse string
	TimeOfDay domain.TimeOfDay
}

// Encode renders the key as a single string. Warehouse and time fields are
// URL-escaped so names containing the separator still parse back unambiguously.
func (k Key) Encode() string {
	return k.Date.Format(domain.DateLayout) +
		keySeparator + url.QueryEscape(k.Warehouse) +
		keySeparator + url.QueryEscape(string(k.TimeOfDay))
}

// ParseKey is the inverse of Encode.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("bucket key %q: want 3 fields, got %d", s, len(parts))
	}

	date, err := time.Parse(domain.DateLayout, parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("bucket key %q: bad date: %w", s, err)
	}
	warehouse, err := url.QueryUnescape(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("bucket key %q: bad warehouse: %w", s, err)
	}
	timeOfDay, err := url.QueryUnescape(parts[2])
	if err != nil {
		return Key{}, fmt.Errorf("bucket key %q: bad time of day: %w", s, err)
	}

	return Key{Date: date, Warehouse: warehouse, TimeOfDay: domain.TimeOfDay(timeOfDay)}, nil
}
