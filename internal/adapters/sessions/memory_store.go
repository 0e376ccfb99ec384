package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/repositories"
)

// MemoryStore keeps dialogue states in process memory. A janitor goroutine
// sweeps out states idle past the TTL so abandoned dialogues do not grow
// without bound.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]*entities.DialogueState
	ttl    time.Duration
	stop   chan struct{}
}

var _ repositories.SessionRepository = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory session store with the given idle TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		states: make(map[int64]*entities.DialogueState),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}
	go store.janitor()
	return store
}

// Get returns the dialogue state for a conversation, or nil when none exists
// or the existing one has gone stale.
func (s *MemoryStore) Get(_ context.Context, chatID int64) (*entities.DialogueState, error) {
	s.mu.RLock()
	state, ok := s.states[chatID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.expired(state, time.Now()) {
		s.mu.Lock()
		delete(s.states, chatID)
		s.mu.Unlock()
		return nil, nil
	}
	return state, nil
}

// Put stores the state and refreshes its idle deadline
func (s *MemoryStore) Put(_ context.Context, state *entities.DialogueState) error {
	state.Touch()
	s.mu.Lock()
	s.states[state.ChatID] = state
	s.mu.Unlock()
	return nil
}

// Delete discards the state for a conversation
func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.states, chatID)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor goroutine
func (s *MemoryStore) Close() {
	close(s.stop)
}

func (s *MemoryStore) expired(state *entities.DialogueState, now time.Time) bool {
	return s.ttl > 0 && now.Sub(state.UpdatedAt) > s.ttl
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for chatID, state := range s.states {
				if s.expired(state, now) {
					delete(s.states, chatID)
				}
			}
			s.mu.Unlock()
		}
	}
}
