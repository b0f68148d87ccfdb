package testutil

import (
	"testing"
	"time"

	"github.com/nhle/taskdesk/internal/store"
)

// Owner is the owner id used by fixtures.
const Owner = "owner-1"

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Clock is a manually advanced clock for deterministic timestamps.
type Clock struct {
	t time.Time
}

// NewClock starts a clock at the given RFC 3339 instant.
func NewClock(t *testing.T, rfc3339 string) *Clock {
	t.Helper()
	at, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		t.Fatalf("parsing clock start %q: %v", rfc3339, err)
	}
	return &Clock{t: at}
}

// Now returns the current clock reading.
func (c *Clock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
