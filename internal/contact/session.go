package contact

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-visitor state: the form being typed and its dispatcher.
type Session struct {
	ID         string
	Form       *Form
	Dispatcher *Dispatcher

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// DispatcherFactory builds the dispatcher of a new session.
type DispatcherFactory func(sessionID string) *Dispatcher

// Sessions keeps one Session per visitor in memory. Nothing is persisted.
type Sessions struct {
	newDispatcher DispatcherFactory
	now           func() time.Time

	mu    sync.Mutex
	items map[string]*Session
}

// NewSessions returns an empty registry.
func NewSessions(factory DispatcherFactory) *Sessions {
	return &Sessions{
		newDispatcher: factory,
		now:           time.Now,
		items:         make(map[string]*Session),
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Open returns the session for id, creating it with an empty form if needed.
// An empty or malformed id gets a fresh one.
func (s *Sessions) Open(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = NewID()
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		sess = &Session{
			ID:         id,
			Form:       NewForm(),
			Dispatcher: s.newDispatcher(id),
		}
		s.items[id] = sess
	}
	sess.touch(now)
	return sess
}

// Get returns an existing session.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	return sess, ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many went.
// Sessions with a send in flight are kept.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.items {
		if sess.idleSince().Before(cutoff) && !sess.Dispatcher.Sending() {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
