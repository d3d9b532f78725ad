package bot

import (
	"testing"
	"time"
)

func TestSessionStore(t *testing.T) {
	s := newSessionStore()

	if _, ok := s.Get(1); ok {
		t.Error("empty store should have no session")
	}

	s.Set(1, pendingAdminPassword)
	kind, ok := s.Get(1)
	if !ok || kind != pendingAdminPassword {
		t.Errorf("Get = (%q, %v), want admin password session", kind, ok)
	}

	// A new interaction replaces the previous one.
	s.Set(1, pendingBroadcast)
	kind, _ = s.Get(1)
	if kind != pendingBroadcast {
		t.Errorf("Get after replace = %q, want broadcast", kind)
	}

	s.Clear(1)
	if _, ok := s.Get(1); ok {
		t.Error("session should be gone after Clear")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	s := newSessionStore()
	s.Set(1, pendingAdminPassword)
	s.Set(2, pendingBroadcast)

	// Force both sessions past their deadline.
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.ExpiresAt = time.Now().Add(-time.Second)
		s.sessions[id] = sess
	}
	s.mu.Unlock()

	if _, ok := s.Get(1); ok {
		t.Error("expired session should not be returned")
	}

	s.sweep()
	s.mu.Lock()
	n := len(s.sessions)
	s.mu.Unlock()
	if n != 0 {
		t.Errorf("sweep left %d sessions, want 0", n)
	}
}
