package rules

import (
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for a specific player.
	WatcherScopePlayer
	// WatcherScopeCard tracks events for a specific card.
	WatcherScopeCard
)

func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	case WatcherScopeCard:
		return "CARD"
	default:
		return "UNKNOWN"
	}
}

// Watcher is an interface for objects that watch game events and track
// conditions, e.g. "another card was played this turn" for Legion gates.
type Watcher interface {
	// Watch is called when an event occurs.
	Watch(event Event)

	// Reset clears the watcher's state (typically at end of turn).
	Reset()

	// ConditionMet returns true if the tracked condition holds.
	ConditionMet() bool

	// GetScope returns the scope of this watcher.
	GetScope() WatcherScope

	// GetKey returns a unique key for this watcher instance.
	GetKey() string
}

// BaseWatcher provides a base implementation for watchers.
type BaseWatcher struct {
	scope        WatcherScope
	controllerID string
	sourceID     string
	condition    bool
	key          string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{scope: scope}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// SetControllerID sets the controller ID (for PLAYER scope watchers).
func (bw *BaseWatcher) SetControllerID(id string) {
	bw.controllerID = id
}

// GetControllerID returns the controller ID.
func (bw *BaseWatcher) GetControllerID() string {
	return bw.controllerID
}

// SetSourceID sets the source ID (for CARD scope watchers).
func (bw *BaseWatcher) SetSourceID(id string) {
	bw.sourceID = id
}

// GetSourceID returns the source ID.
func (bw *BaseWatcher) GetSourceID() string {
	return bw.sourceID
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SetKey sets the unique key for this watcher.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// WatcherRegistry stores watchers and fans events out to them.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
}

// NewWatcherRegistry creates an empty registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{watchers: make(map[string]Watcher)}
}

// Add registers a watcher keyed by its GetKey value. Re-adding the same
// key replaces the previous watcher.
func (wr *WatcherRegistry) Add(w Watcher) {
	if w == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.watchers[w.GetKey()] = w
}

// Get returns the watcher registered under the given key.
func (wr *WatcherRegistry) Get(key string) (Watcher, bool) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	w, ok := wr.watchers[key]
	return w, ok
}

// Remove drops the watcher registered under the given key.
func (wr *WatcherRegistry) Remove(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	delete(wr.watchers, key)
}

// Dispatch hands the event to every registered watcher.
func (wr *WatcherRegistry) Dispatch(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		w.Watch(event)
	}
}

// ResetAll resets every watcher, typically at end of turn.
func (wr *WatcherRegistry) ResetAll() {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		w.Reset()
	}
}
