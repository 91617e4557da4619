// Package cooldown rate limits commands per user.
package cooldown

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdle = 10 * time.Minute

// Limiter keeps one token bucket per user. A nil Limiter allows everything.
type Limiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time
	users map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// New allows perSecond sustained commands per user with the given burst.
// perSecond <= 0 returns nil, which disables limiting.
func New(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit: rate.Limit(perSecond),
		burst: burst,
		idle:  defaultIdle,
		now:   time.Now,
		users: make(map[string]*bucket),
	}
}

// WithClock replaces time.Now, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow consumes one token for userID.
func (l *Limiter) Allow(userID string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.users[userID]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.users[userID] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// Sweep forgets users idle for longer than the idle window.
func (l *Limiter) Sweep() int {
	if l == nil {
		return 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for id, b := range l.users {
		if now.Sub(b.seen) > l.idle {
			delete(l.users, id)
			n++
		}
	}
	return n
}

// Len is the number of tracked users.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
