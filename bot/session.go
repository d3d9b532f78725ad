package bot

import (
	"sync"
	"time"
)

// Pending interaction kinds. One kind per user at a time: starting a new
// interaction replaces the previous one.
const (
	pendingAdminPassword = "admin_password"
	pendingBroadcast     = "broadcast"
)

const sessionTTL = 5 * time.Minute

type pendingSession struct {
	Kind      string
	ExpiresAt time.Time
}

// sessionStore keeps per-user transient conversation state (user id →
// pending-interaction tag) with explicit expiry, instead of unbounded
// global sets.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]pendingSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]pendingSession)}
}

func (s *sessionStore) Set(userID int64, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = pendingSession{Kind: kind, ExpiresAt: time.Now().Add(sessionTTL)}
}

// Get returns the user's pending interaction kind, dropping it if expired.
func (s *sessionStore) Get(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, userID)
		return "", false
	}
	return sess.Kind, true
}

func (s *sessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// sweep drops all expired sessions. Called periodically from the bot loop
// so abandoned interactions do not accumulate.
func (s *sessionStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
