// Package calendar converts instants and date strings into civil-day keys
// in a single regional timezone. All due-date comparisons go through it.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// keyLayout is the fixed-width, big-endian day key format. Keys of this
// shape order lexicographically the same way the days they name do.
const keyLayout = "2006-01-02"

// DefaultZoneName is the IANA name of the application's regional timezone.
const DefaultZoneName = "Asia/Kolkata"

// IST is India Standard Time, UTC+5:30. It has no daylight saving.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// DayKey identifies a civil day as YYYY-MM-DD. The zero value means "no day".
type DayKey string

// IsZero reports whether k is empty.
func (k DayKey) IsZero() bool { return k == "" }

// String implements fmt.Stringer.
func (k DayKey) String() string { return string(k) }

// Before reports whether k names an earlier day than other.
func (k DayKey) Before(other DayKey) bool { return k < other }

// After reports whether k names a later day than other.
func (k DayKey) After(other DayKey) bool { return k > other }

// Date returns midnight UTC of the day. Using UTC keeps day arithmetic
// exact: a UTC civil day is always 24 hours long.
func (k DayKey) Date() (time.Time, error) {
	t, err := time.Parse(keyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day key %q: %w", k, err)
	}
	return t, nil
}

// AddDays returns the key n calendar days after k (n may be negative).
func (k DayKey) AddDays(n int) (DayKey, error) {
	t, err := k.Date()
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, n).Format(keyLayout)), nil
}

// DaysUntil returns the number of whole calendar days from k to other.
// It is negative when other is before k.
func (k DayKey) DaysUntil(other DayKey) (int, error) {
	from, err := k.Date()
	if err != nil {
		return 0, err
	}
	to, err := other.Date()
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// ParseDayKey validates a bare YYYY-MM-DD string.
func ParseDayKey(s string) (DayKey, error) {
	if _, err := time.Parse(keyLayout, s); err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return DayKey(s), nil
}

// Normalizer maps instants and date strings to day keys in one location.
// It samples its clock once per call.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// New creates a Normalizer for loc. A nil loc means IST and a nil now
// means time.Now.
func New(loc *time.Location, now func() time.Time) *Normalizer {
	if loc == nil {
		loc = IST
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{loc: loc, now: now}
}

// LoadLocation resolves an IANA zone name, falling back to IST when the
// zone database is unavailable or the name is empty.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return IST
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return IST
	}
	return loc
}

// Location returns the regional timezone.
func (n *Normalizer) Location() *time.Location { return n.loc }

// Now returns the current instant from the injected clock.
func (n *Normalizer) Now() time.Time { return n.now() }

// Today returns the regional day key of the current instant.
func (n *Normalizer) Today() DayKey {
	return n.DayOf(n.now())
}

// Tomorrow returns Today plus one calendar day.
func (n *Normalizer) Tomorrow() DayKey {
	return n.shiftToday(1)
}

// Yesterday returns Today minus one calendar day.
func (n *Normalizer) Yesterday() DayKey {
	return n.shiftToday(-1)
}

func (n *Normalizer) shiftToday(days int) DayKey {
	t := n.now().In(n.loc)
	y, m, d := t.Date()
	return DayKey(time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC).Format(keyLayout))
}

// DayOf returns the regional day key of an instant.
func (n *Normalizer) DayOf(t time.Time) DayKey {
	return DayKey(t.In(n.loc).Format(keyLayout))
}

// Normalize converts a date or datetime string to a day key.
//
// A bare date is already a day and is returned unchanged. A datetime
// carrying a zone offset is an instant and is shifted into the regional
// timezone. A datetime without an offset is treated as regional wall-clock
// time, so its date part is the key.
func (n *Normalizer) Normalize(s string) (DayKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if len(s) == len(keyLayout) {
		return ParseDayKey(s)
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return n.DayOf(t), nil
		}
	}

	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DayKey(t.Format(keyLayout)), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", s)
}
