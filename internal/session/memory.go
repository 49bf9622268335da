package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/widget"
)

var (
	// ErrNotFound is returned when no widget is mounted under an id.
	ErrNotFound = errors.New("no widget session with that id")
	// ErrFull is returned when the session limit is reached.
	ErrFull = errors.New("too many widget sessions")
)

type entry struct {
	controller *widget.Controller
	lastSeen   time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of mounted widgets.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*entry

	// max number of live sessions (0 = unlimited)
	maxSessions int

	now func() time.Time
}

var _ widget.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore.
// If maxSessions is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*entry),
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Add registers a controller under a fresh id.
func (s *MemoryStore) Add(c *widget.Controller) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		return "", ErrFull
	}

	id := uuid.NewString()
	s.data[id] = &entry{controller: c, lastSeen: s.now()}
	return id, nil
}

// Get returns the controller for id and marks the session as active.
func (s *MemoryStore) Get(id string) (*widget.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.controller, nil
}

// Remove closes and forgets the session.
func (s *MemoryStore) Remove(id string) error {
	s.mu.Lock()
	e, ok := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.controller.Close()
	return nil
}

// Sweep closes and removes sessions idle for longer than maxIdle and
// returns how many were removed.
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	cutoff := s.now().Add(-maxIdle)
	var stale []*widget.Controller

	s.mu.Lock()
	for id, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.controller)
			delete(s.data, id)
		}
	}
	s.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
