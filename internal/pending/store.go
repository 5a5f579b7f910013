// Package pending holds at most one proposed action per conversation while
// it waits for the operator to confirm or cancel it.
package pending

import (
	"sync"

	"github.com/ppiankov/tgagent/internal/plan"
)

// Store maps a conversation key to its outstanding action.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a, replacing any action already held for key.
	Put(key int64, a plan.Action)
	Get(key int64) (plan.Action, bool)
	Remove(key int64)
	// Take removes and returns the action for key in one step.
	Take(key int64) (plan.Action, bool)
}

// Memory is the process-wide in-memory Store. Its zero value is not usable;
// call NewMemory.
type Memory struct {
	mu      sync.Mutex
	actions map[int64]plan.Action
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{actions: make(map[int64]plan.Action)}
}

// Put stores a for key, replacing any earlier action.
func (m *Memory) Put(key int64, a plan.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[key] = a
}

// Get returns the action for key without removing it.
func (m *Memory) Get(key int64) (plan.Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actions[key]
	return a, ok
}

// Remove discards the action for key, if any.
func (m *Memory) Remove(key int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actions, key)
}

// Take removes and returns the action for key. Of several concurrent
// callers for the same key, only one gets the action.
func (m *Memory) Take(key int64) (plan.Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actions[key]
	if ok {
		delete(m.actions, key)
	}
	return a, ok
}

// Len returns the number of outstanding actions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.actions)
}
