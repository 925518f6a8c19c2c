package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

// MemoryStore keeps sessions in a map.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl uses
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, ws *pipeline.Workspace) (*Session, error) {
	sess := New(ws, s.ttl)
	now := s.now()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(id)
}

// Touch extends the lifetime of a session without handing it out. The
// websocket calls it for every message, so a client that never uses the
// REST endpoints keeps its session alive.
func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.refresh(id)
	return err
}

// refresh must be called with mu held.
func (s *MemoryStore) refresh(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if now.After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrExpired
	}
	sess.ExpiresAt = now.Add(s.ttl)
	return sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed []string
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run removes expired sessions every interval until ctx is done. onCleanup
// receives the IDs removed in each sweep, possibly none.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration, onCleanup func(removed []string, active int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, _ := s.Cleanup(ctx)
			if onCleanup != nil {
				onCleanup(removed, s.Len())
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
