package testutil

import (
	"sync"
	"testing"
	"time"

	"brotherowl-backend/lib/spystore"
)

// MemorySpyStore opens an empty in-memory spy store that is closed when the
// test ends.
func MemorySpyStore(t testing.TB) *spystore.SQLStore {
	store, err := spystore.OpenSQL(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
