// Package session keeps short-lived multi-step interaction state in memory.
//
// Sessions are keyed by the interaction id that started the flow. Expired
// sessions are unreachable as soon as their TTL passes; Sweep reclaims them.
package session

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

const DefaultTTL = 10 * time.Minute

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateSession = errors.New("session already exists")
)

// Session is a snapshot of stored state. Mutating it does not change the store; use Update.
type Session struct {
	ID        string
	OwnerID   string
	Payload   map[string]any
	CreatedAt time.Time
}

// String returns payload[key] as a string, or "".
func (s Session) String(key string) string {
	v, _ := s.Payload[key].(string)
	return v
}

// Store is a concurrency-safe session map with TTL.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store. A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session. An expired session with the same id is replaced.
func (s *Store) Create(id, ownerID string, payload map[string]any) (Session, error) {
	if id == "" {
		return Session{}, errors.New("session id is empty")
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[id]; ok && !s.expired(existing, now) {
		return Session{}, fmt.Errorf("%w: %s", ErrDuplicateSession, id)
	}
	sess := &Session{
		ID:        id,
		OwnerID:   ownerID,
		Payload:   cloneMap(payload),
		CreatedAt: now,
	}
	s.sessions[id] = sess
	return snapshot(sess), nil
}

// Get returns a live session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return Session{}, err
	}
	return snapshot(sess), nil
}

// Update applies mutate to a copy of the payload and stores it if mutate succeeds.
// The read-modify-write happens under the store lock.
func (s *Store) Update(id string, mutate func(payload map[string]any) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return Session{}, err
	}
	next := cloneMap(sess.Payload)
	if err := mutate(next); err != nil {
		return Session{}, err
	}
	sess.Payload = next
	return snapshot(sess), nil
}

// Remove deletes a session. Removing a missing session is not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len counts stored sessions, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) liveLocked(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.CreatedAt) > s.ttl
}

func snapshot(sess *Session) Session {
	out := *sess
	out.Payload = cloneMap(sess.Payload)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
