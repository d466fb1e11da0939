// Package session owns the per-user agent handles. The registry is the only
// shared mutable state in the core: a mutex-guarded map with insert-if-absent
// semantics so concurrent first messages from the same user never create two
// handles.
package session

import (
	"sync"

	"github.com/custcare-agent/server/internal/agent/model"
	logx "github.com/custcare-agent/server/pkg/logger"
)

// Factory builds a fresh generator handle for a user: new conversation
// memory, system instructions parameterized by the user id, bounded tool
// calls and per-call timeout.
type Factory func(userID string) model.Generator

// Registry maps user ids to their generator handles. Handles never expire;
// they are dropped only by an explicit Clear.
type Registry struct {
	mu       sync.RWMutex
	factory  Factory
	sessions map[string]model.Generator
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:  factory,
		sessions: make(map[string]model.Generator),
	}
}

// GetOrCreate returns the user's existing handle or atomically constructs and
// stores exactly one new handle.
func (r *Registry) GetOrCreate(userID string) model.Generator {
	r.mu.RLock()
	g, ok := r.sessions[userID]
	r.mu.RUnlock()
	if ok {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check: another caller may have created the handle between the
	// read unlock and the write lock.
	if g, ok := r.sessions[userID]; ok {
		return g
	}
	g = r.factory(userID)
	r.sessions[userID] = g
	logx.Info().Str("user_id", userID).Msg("session created")
	return g
}

// Clear removes the user's handle, dropping its conversation memory.
// Idempotent when absent.
func (r *Registry) Clear(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; ok {
		delete(r.sessions, userID)
		logx.Info().Str("user_id", userID).Msg("session cleared")
	}
}

// Count returns the number of registered sessions at the time of the call.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
