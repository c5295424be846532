package rules

import (
	"errors"
	"sync"
)

// ChainItemKind describes the type of object on the chain.
type ChainItemKind string

const (
	// ChainItemKindSpell represents a spell played by a player.
	ChainItemKindSpell ChainItemKind = "SPELL"
	// ChainItemKindAbility represents an activated ability.
	ChainItemKindAbility ChainItemKind = "ABILITY"
	// ChainItemKindLegend represents a legend activation.
	ChainItemKindLegend ChainItemKind = "LEGEND_ACTIVATION"
	// ChainItemKindTrigger represents a triggered ability.
	ChainItemKindTrigger ChainItemKind = "TRIGGER"
)

// ChainItem represents a single object on the chain.
type ChainItem struct {
	ID             string
	Controller     string
	Description    string
	Kind           ChainItemKind
	SourceID       string
	Targets        []string
	AdditionalPaid bool
	Metadata       map[string]string
	Resolve        func() error
	// OnRemove runs when the item leaves the chain without resolving,
	// e.g. when a spell is negated.
	OnRemove func()
}

// ChainManager manages the game chain. Items resolve last-in-first-out.
type ChainManager struct {
	mu    sync.Mutex
	items []ChainItem
}

// NewChainManager creates a new chain manager.
func NewChainManager() *ChainManager {
	return &ChainManager{
		items: make([]ChainItem, 0, 16),
	}
}

// Push adds an item to the top of the chain.
func (cm *ChainManager) Push(item ChainItem) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.items = append(cm.items, item)
}

// Pop removes the top item from the chain.
func (cm *ChainManager) Pop() (ChainItem, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if len(cm.items) == 0 {
		return ChainItem{}, errors.New("chain empty")
	}

	idx := len(cm.items) - 1
	item := cm.items[idx]
	cm.items = cm.items[:idx]
	return item, nil
}

// Remove deletes an item from anywhere in the chain by ID.
func (cm *ChainManager) Remove(id string) (ChainItem, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for idx := len(cm.items) - 1; idx >= 0; idx-- {
		if cm.items[idx].ID == id {
			item := cm.items[idx]
			cm.items = append(cm.items[:idx], cm.items[idx+1:]...)
			if item.OnRemove != nil {
				item.OnRemove()
			}
			return item, true
		}
	}
	return ChainItem{}, false
}

// Peek returns the top item without removing it.
func (cm *ChainManager) Peek() (ChainItem, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if len(cm.items) == 0 {
		return ChainItem{}, false
	}
	return cm.items[len(cm.items)-1], true
}

// List returns a copy of all chain items (topmost last).
func (cm *ChainManager) List() []ChainItem {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cpy := make([]ChainItem, len(cm.items))
	copy(cpy, cm.items)
	return cpy
}

// IsEmpty returns whether the chain is empty.
func (cm *ChainManager) IsEmpty() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.items) == 0
}

// Len returns the number of items on the chain.
func (cm *ChainManager) Len() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.items)
}
