package game

import (
	"fmt"
	"sync"
)

// Registry holds the live engines, one per game. Each engine serializes
// its own mutations; the registry only guards the map.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]*Engine)}
}

// Add registers an engine under its game id.
func (r *Registry) Add(e *Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		return fmt.Errorf("engine has no game id")
	}
	if _, exists := r.engines[e.ID]; exists {
		return fmt.Errorf("game %s already registered", e.ID)
	}
	r.engines[e.ID] = e
	return nil
}

// Get returns the engine for a game id.
func (r *Registry) Get(gameID string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[gameID]
	return e, ok
}

// Remove drops a finished game.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, gameID)
}

// IDs lists the registered game ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.engines))
	for id := range r.engines {
		out = append(out, id)
	}
	return out
}
