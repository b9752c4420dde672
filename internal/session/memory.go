package session

import (
	"context"
	"sync"
)

// MemoryManager is an in-process Manager implementation for tests and development.
type MemoryManager struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewMemoryManager constructs an empty in-memory Manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{states: make(map[int64]State)}
}

// State returns the stored state for a user, or StateNone when absent.
func (m *MemoryManager) State(_ context.Context, userID int64) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[userID], nil
}

// SetState stores the state for a user.
func (m *MemoryManager) SetState(_ context.Context, userID int64, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
	return nil
}

// Clear removes the session for a user.
func (m *MemoryManager) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}
