package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn events
	EventBeginTurn     EventType = "BEGIN_TURN"
	EventStepChanged   EventType = "STEP_CHANGED"
	EventAwakenStep    EventType = "AWAKEN_STEP"
	EventScoringStep   EventType = "SCORING_STEP"
	EventChannelStep   EventType = "CHANNEL_STEP"
	EventDrawStep      EventType = "DRAW_STEP"
	EventEndingStep    EventType = "ENDING_STEP"
	EventExpiration    EventType = "EXPIRATION_STEP"
	EventCleanupStep   EventType = "CLEANUP_STEP"
	EventEmptyRunePool EventType = "EMPTY_RUNE_POOL"

	// Zone events
	EventZoneChange EventType = "ZONE_CHANGE"
	EventUnitPlayed EventType = "UNIT_PLAYED"
	EventGearPlayed EventType = "GEAR_PLAYED"
	EventCardPlayed EventType = "CARD_PLAYED"
	EventUnitMoved  EventType = "UNIT_MOVED"
	EventUnitKilled EventType = "UNIT_KILLED"
	EventTokenMade  EventType = "TOKEN_CREATED"

	// Card events
	EventDrawCard      EventType = "DRAW_CARD"
	EventDrewCard      EventType = "DREW_CARD"
	EventDiscardCard   EventType = "DISCARD_CARD"
	EventDiscardedCard EventType = "DISCARDED_CARD"
	EventRecycledRune  EventType = "RECYCLED_RUNE"
	EventChanneledRune EventType = "CHANNELED_RUNE"
	EventRevealedCard  EventType = "REVEALED_CARD"
	EventLookedAtCard  EventType = "LOOKED_AT_CARD"

	// Chain events
	EventSpellPlayed       EventType = "SPELL_PLAYED"
	EventAbilityActivated  EventType = "ABILITY_ACTIVATED"
	EventLegendActivated   EventType = "LEGEND_ACTIVATED"
	EventTriggerQueued     EventType = "TRIGGER_QUEUED"
	EventChainItemResolved EventType = "CHAIN_ITEM_RESOLVED"
	EventChainItemRemoved  EventType = "CHAIN_ITEM_REMOVED"
	EventChainClosed       EventType = "CHAIN_CLOSED"
	EventChainOpened       EventType = "CHAIN_OPENED"

	// Damage/might events
	EventDamageUnit  EventType = "DAMAGE_UNIT"
	EventDamagedUnit EventType = "DAMAGED_UNIT"
	EventUnitBuffed  EventType = "UNIT_BUFFED"
	EventUnitStunned EventType = "UNIT_STUNNED"

	// Battlefield events
	EventBattlefieldTaken EventType = "BATTLEFIELD_TAKEN"
	EventConquerScored    EventType = "CONQUER_SCORED"
	EventHoldScored       EventType = "HOLD_SCORED"
	EventShowdownStarted  EventType = "SHOWDOWN_STARTED"
	EventShowdownResolved EventType = "SHOWDOWN_RESOLVED"
	EventHiddenPlaced     EventType = "HIDDEN_PLACED"
	EventHiddenDiscarded  EventType = "HIDDEN_DISCARDED"

	// Control events
	EventControlChanged EventType = "CONTROL_CHANGED"

	// Game events
	EventPlayerLost      EventType = "PLAYER_LOST"
	EventPlayerWon       EventType = "PLAYER_WON"
	EventPlayerConceded  EventType = "PLAYER_CONCEDED"
	EventPlayerBurnedOut EventType = "PLAYER_BURNED_OUT"

	// State-based sweep event
	EventStateBasedActions EventType = "STATE_BASED_ACTIONS"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string
	TargetID    string
	SourceID    string
	Controller  string
	PlayerID    string
	Amount      int
	Flag        bool
	Zone        int
	Battlefield int
	Targets     []string
	Timestamp   time.Time
	Metadata    map[string]string
	Description string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with
// type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	listener := TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	}
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], listener)
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}

	if typedListeners, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typedListeners {
			listener.Callback(event)
		}
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}
