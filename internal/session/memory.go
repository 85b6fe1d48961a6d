package session

import (
	"context" // Context for the Store interface
	"sync"    // Session map lock
	"time"    // Expiry and sweep ticker

	"github.com/google/uuid"     // Session identifiers
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// MemoryStore keeps sessions in process memory and sweeps expired ones periodically
type MemoryStore struct {
	mu       sync.Mutex         // Guards sessions
	sessions map[string]Session // Sessions by id
	ttl      time.Duration      // Session lifetime
	now      func() time.Time   // Time source
	stop     chan struct{}      // Closed to stop the sweeper
	done     chan struct{}      // Closed once the sweeper has exited
	once     sync.Once          // Makes Close idempotent
}

// NewMemoryStore starts a store whose sweeper runs every sweepPeriod. A
// non-positive sweepPeriod disables the sweeper; Get still honors expiry.
func NewMemoryStore(ttl, sweepPeriod time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if sweepPeriod > 0 {
		go s.sweepLoop(sweepPeriod)
	} else {
		close(s.done) // No sweeper to wait for
	}
	return s
}

// sweepLoop runs Sweep every period until Close
func (s *MemoryStore) sweepLoop(period time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logrus.WithField("removed", n).Debug("expired sessions swept")
			}
		case <-s.stop:
			return // Store closed
		}
	}
}

// Sweep removes expired sessions and returns how many were removed
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Create stores a new session for userID that expires after the store TTL
func (s *MemoryStore) Create(_ context.Context, userID uint) (*Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return &sess, nil
}

// Get returns the live session with the given id or ErrSessionNotFound
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id) // Drop it now rather than waiting for the sweeper
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Destroy forgets the session; unknown ids are ignored
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper and waits for it to exit
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

var _ Store = (*MemoryStore)(nil)
