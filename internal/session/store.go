// Package session holds per-browser-session state: the signed-in user (if
// any) and the recognition handoff slots. Everything here is session-lifetime
// only; nothing is written to the database.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handoff keys shared by the recognition writer and the preview reader. The
// image lives under its own key because a data URL can be large enough to
// threaten the quota when serialized together with other values.
const (
	KeyRecognitionResult = "ai:recognition:result"
	KeyRecognitionImage  = "ai:recognition:image"
)

// MaxSessionBytes caps the total value bytes one session may hold, mirroring
// browser sessionStorage quotas.
const MaxSessionBytes = 5 * 1024 * 1024

// DefaultSessionTTL is how long an idle session survives before the store
// evicts it.
const DefaultSessionTTL = 24 * time.Hour

// ErrQuotaExceeded is returned when a Put would push a session over its byte
// quota. Callers treat it as best-effort: log and move on.
var ErrQuotaExceeded = errors.New("session storage quota exceeded")

type Session struct {
	ID        string
	CreatedAt time.Time

	// lastSeen is guarded by the owning Store's mutex, not the session's.
	lastSeen time.Time

	mu     sync.Mutex
	userID int64
	values map[string]string
	bytes  int
}

// UserID returns the signed-in user, or 0.
func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SetUserID records the signed-in user; 0 signs out. Login and the
// authenticated handlers run on concurrent requests sharing one cookie, so
// the field lives under the session mutex.
func (s *Session) SetUserID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
}

// Put stores a value under key, enforcing the per-session byte quota.
func (s *Session) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.bytes - len(s.values[key]) + len(value)
	if next > MaxSessionBytes {
		return ErrQuotaExceeded
	}
	s.values[key] = value
	s.bytes = next
	return nil
}

// Get returns the value under key and whether it was present.
func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Remove deletes the value under key.
func (s *Session) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes -= len(s.values[key])
	delete(s.values, key)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      DefaultSessionTTL,
	}
}

// Create registers a new session with a fresh id. Sessions idle past the TTL
// are swept here, so a server that keeps minting sessions for cookieless
// clients also keeps shedding the dead ones.
func (st *Store) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastSeen:  now,
		values:    make(map[string]string),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, old := range st.sessions {
		if now.Sub(old.lastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}
	st.sessions[s.ID] = s
	return s
}

// Get resolves a session id and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if ok {
		s.lastSeen = time.Now()
	}
	return s, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
