package repository

import (
	"sync"
	"time"

	"github.com/camden-git/personsweb/models"
)

type memorySession struct {
	state     models.ListState
	updatedAt time.Time
}

// MemorySessionRepository keeps page sessions in process memory. It is the default;
// state is lost on restart.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	Now      func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]memorySession), Now: time.Now}
}

func (r *MemorySessionRepository) GetListState(sessionID string) (models.ListState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return models.ListState{}, nil
	}
	state := s.state
	state.Persons = append([]models.Person(nil), s.state.Persons...)
	return state, nil
}

func (r *MemorySessionRepository) SaveListState(sessionID string, state models.ListState) error {
	state.Persons = append([]models.Person(nil), state.Persons...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = memorySession{state: state, updatedAt: r.Now()}
	return nil
}

func (r *MemorySessionRepository) UpdateListState(sessionID string, fn func(models.ListState) models.ListState) (models.ListState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.sessions[sessionID].state
	current.Persons = append([]models.Person(nil), current.Persons...)
	next := fn(current)

	stored := next
	stored.Persons = append([]models.Person(nil), next.Persons...)
	r.sessions[sessionID] = memorySession{state: stored, updatedAt: r.Now()}
	return next, nil
}

func (r *MemorySessionRepository) DeleteExpired(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.updatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
