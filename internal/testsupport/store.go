package testsupport

import (
	"context"
	"testing"
	"time"

	"wordcore/internal/config"
	"wordcore/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// FixedClock returns a controllable clock starting at start.
type FixedClock struct {
	now time.Time
}

// NewClock returns a clock pinned at start.
func NewClock(start time.Time) *FixedClock {
	return &FixedClock{now: start.UTC()}
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set pins the clock at value.
func (c *FixedClock) Set(value time.Time) { c.now = value.UTC() }

// MustCreateUser creates a user for tests.
func MustCreateUser(t testing.TB, st *store.Store, role store.Role, name string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), role, name)
	if err != nil {
		t.Fatalf("store.CreateUser: %v", err)
	}
	return user
}

// MustCreateWord creates a NEW word with the given lemma for tests.
func MustCreateWord(t testing.TB, st *store.Store, userID int64, lemma string, tags ...string) *store.Word {
	t.Helper()

	word, err := st.CreateWord(context.Background(), store.NewWord{
		UserID:  userID,
		Lemma:   lemma,
		Surface: lemma,
		Tags:    tags,
	})
	if err != nil {
		t.Fatalf("store.CreateWord(%q): %v", lemma, err)
	}
	return word
}
