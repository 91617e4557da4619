package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCreateGetRemove(t *testing.T) {
	st := NewStore(time.Minute)

	created, err := st.Create("s1", "u1", map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)

	got, err := st.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, 1, got.Payload["x"])

	st.Remove("s1")
	_, err = st.Get("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	st := NewStore(time.Minute)
	_, err := st.Create("s1", "u1", nil)
	require.NoError(t, err)

	st.Remove("s1")
	assert.NotPanics(t, func() { st.Remove("s1") })
	assert.Zero(t, st.Len())
}

func TestCreateRejectsLiveDuplicate(t *testing.T) {
	clock := newFakeClock()
	st := NewStore(time.Minute, WithClock(clock.Now))

	_, err := st.Create("s1", "u1", nil)
	require.NoError(t, err)

	_, err = st.Create("s1", "u2", nil)
	assert.ErrorIs(t, err, ErrDuplicateSession)

	clock.Advance(2 * time.Minute)
	replaced, err := st.Create("s1", "u2", nil)
	require.NoError(t, err)
	assert.Equal(t, "u2", replaced.OwnerID)
}

func TestCreateRejectsEmptyID(t *testing.T) {
	_, err := NewStore(0).Create("", "u1", nil)
	assert.Error(t, err)
}

func TestExpiredSessionIsAbsent(t *testing.T) {
	clock := newFakeClock()
	st := NewStore(10*time.Minute, WithClock(clock.Now))

	_, err := st.Create("s1", "u1", map[string]any{"objectName": "rock"})
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	_, err = st.Get("s1")
	require.NoError(t, err, "a session is live up to its ttl")

	clock.Advance(time.Second)
	_, err = st.Get("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = st.Update("s1", func(map[string]any) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, st.Len(), "expiry is lazy until swept")
	assert.Equal(t, 1, st.Sweep())
	assert.Zero(t, st.Len())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	st := NewStore(time.Minute)
	payload := map[string]any{"x": 1}
	_, err := st.Create("s1", "u1", payload)
	require.NoError(t, err)

	payload["x"] = 2
	got, err := st.Get("s1")
	require.NoError(t, err)
	got.Payload["x"] = 3

	again, err := st.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Payload["x"])
}

func TestUpdate(t *testing.T) {
	st := NewStore(time.Minute)
	_, err := st.Create("s1", "u1", map[string]any{"n": 0})
	require.NoError(t, err)

	updated, err := st.Update("s1", func(p map[string]any) error {
		p["n"] = p["n"].(int) + 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Payload["n"])

	boom := errors.New("boom")
	_, err = st.Update("s1", func(p map[string]any) error {
		p["n"] = 100
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := st.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Payload["n"], "a failed mutator leaves the payload untouched")
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	st := NewStore(time.Minute)
	_, err := st.Create("s1", "u1", map[string]any{"n": 0})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Update("s1", func(p map[string]any) error {
				p["n"] = p["n"].(int) + 1
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := st.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Payload["n"])
}

func TestSessionString(t *testing.T) {
	s := Session{Payload: map[string]any{"objectName": "rock", "n": 1}}
	assert.Equal(t, "rock", s.String("objectName"))
	assert.Empty(t, s.String("n"))
	assert.Empty(t, s.String("missing"))
}

type countingSweeper struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSweeper) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 0
}

func (c *countingSweeper) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	target := &countingSweeper{}

	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, 5*time.Millisecond, target)
		close(done)
	}()

	require.Eventually(t, func() bool { return target.Calls() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
