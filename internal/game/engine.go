package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/runes"
	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

const (
	openingHandSize = 4
	winningScore    = 8
	channelPerTurn  = 2
)

// Engine drives one match. All mutation goes through ProcessAction under
// a single lock; readers take snapshots via View.
type Engine struct {
	mu     sync.Mutex
	logger *zap.Logger

	ID           string
	players      []*Player
	battlefields []*Battlefield
	cards        map[string]*CardInstance

	turns     *rules.TurnManager
	chain     *rules.ChainManager
	priority  *rules.PriorityTracker
	triggers  *rules.TriggerManager
	bus       *rules.EventBus
	watchers  *rules.WatcherRegistry
	legality  *rules.LegalityChecker
	modifiers *effects.ModifierStore
	compiler  *effects.Compiler
	validator *targeting.Validator

	playWatcher *cardsPlayedWatcher

	pending  *PendingChoice
	combatBF int

	gameLog []LogLine
	rng     *rand.Rand
	started bool
	over    bool
	winner  string
}

// DeckList is one player's starting configuration.
type DeckList struct {
	Player   string
	Name     string
	Legend   carddata.Definition
	Champion carddata.Definition
	Cards    []carddata.Definition
	Runes    []carddata.Definition
}

// NewEngine creates an engine for a single match. The seed fixes shuffle
// order, which makes replays and tests deterministic.
func NewEngine(logger *zap.Logger, seed int64) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:    logger,
		cards:     make(map[string]*CardInstance),
		chain:     rules.NewChainManager(),
		triggers:  rules.NewTriggerManager(),
		bus:       rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
		modifiers: effects.NewModifierStore(),
		compiler:  effects.NewCompiler(),
		combatBF:  -1,
		rng:       rand.New(rand.NewSource(seed)),
	}
	e.legality = rules.NewLegalityChecker(e)
	e.validator = targeting.NewValidator(e)
	e.playWatcher = newCardsPlayedWatcher()
	e.watchers.Add(e.playWatcher)
	e.bus.Subscribe(e.watchers.Dispatch)
	return e
}

// StartGame seats the players, builds card instances, shuffles, draws
// opening hands and parks the game on the mulligan step.
func (e *Engine) StartGame(gameID string, battlefieldDefs []carddata.Definition, decks ...DeckList) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("game %s already started", e.ID)
	}
	if len(decks) != 2 {
		return fmt.Errorf("expected 2 deck lists, got %d", len(decks))
	}
	if len(battlefieldDefs) == 0 {
		return fmt.Errorf("at least one battlefield is required")
	}

	e.ID = gameID
	order := make([]string, 0, len(decks))
	for _, deck := range decks {
		p := &Player{
			ID:   deck.Player,
			Name: deck.Name,
			Pool: runes.NewPool(),
		}
		if deck.Legend.ID != "" {
			legend := e.newInstance(deck.Legend, p.ID, rules.ZoneLegend)
			p.Legend = legend.ID
		}
		if deck.Champion.ID != "" {
			// The champion starts shuffled into the deck like any card;
			// the player just remembers which one is theirs.
			champ := e.newInstance(deck.Champion, p.ID, rules.ZoneDeck)
			p.Champion = champ.ID
			p.Deck = append(p.Deck, champ.ID)
		}
		for _, def := range deck.Cards {
			card := e.newInstance(def, p.ID, rules.ZoneDeck)
			p.Deck = append(p.Deck, card.ID)
		}
		for _, def := range deck.Runes {
			r := e.newInstance(def, p.ID, rules.ZoneRuneDeck)
			p.RuneDeck = append(p.RuneDeck, r.ID)
		}
		e.shuffle(p.Deck)
		e.shuffle(p.RuneDeck)
		e.players = append(e.players, p)
		order = append(order, p.ID)
	}

	for i, def := range battlefieldDefs {
		card := e.newInstance(def, "", rules.ZoneBoard)
		card.Battlefield = i
		e.battlefields = append(e.battlefields, &Battlefield{Index: i, CardID: card.ID})
	}

	e.turns = rules.NewTurnManager(order[0])
	e.priority = rules.NewPriorityTracker(order)
	e.started = true

	for _, p := range e.players {
		for i := 0; i < openingHandSize; i++ {
			if err := e.drawCard(p); err != nil {
				return err
			}
		}
	}
	e.logf("", "Game %s started; %s goes first", gameID, e.player(order[0]).Name)
	return nil
}

func (e *Engine) newInstance(def carddata.Definition, owner string, zone int) *CardInstance {
	card := &CardInstance{
		ID:          uuid.NewString(),
		Def:         def,
		Owner:       owner,
		Controller:  owner,
		Zone:        zone,
		Battlefield: -1,
		Ready:       true,
		Role:        effects.RoleAny,
		Effect:      e.compiler.Compile(def.Text),
	}
	e.cards[card.ID] = card
	return card
}

func (e *Engine) shuffle(ids []string) {
	e.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// ProcessAction is the single mutation entry point: (state, action) →
// state'. Illegal actions return an error and leave state untouched.
func (e *Engine) ProcessAction(action Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("game not started")
	}
	if e.over {
		return fmt.Errorf("game is over, %s won", e.winner)
	}
	if e.player(action.Player) == nil {
		return fmt.Errorf("unknown player %s", action.Player)
	}

	if action.Type == ActionConcede {
		return e.concede(action.Player)
	}

	if e.pending != nil {
		if action.Type != ActionConfirmChoice {
			return fmt.Errorf("a %s choice is pending for %s", e.pending.Kind, e.pending.Player)
		}
		return e.confirmChoice(action)
	}

	if e.turns.InMulligan() {
		switch action.Type {
		case ActionMulliganKeep:
			return e.mulligan(action.Player, false)
		case ActionMulliganTake:
			return e.mulligan(action.Player, true)
		default:
			return fmt.Errorf("mulligan in progress, %s not legal", action.Type)
		}
	}

	switch action.Type {
	case ActionPlayCard:
		return e.playCard(action)
	case ActionActivateAbility:
		return e.activateAbility(action)
	case ActionPassPriority:
		return e.passPriority(action.Player)
	case ActionNextStep:
		return e.nextStep(action.Player)
	case ActionMoveUnit:
		return e.moveUnit(action)
	case ActionConfirmChoice:
		return fmt.Errorf("no choice is pending")
	case ActionMulliganKeep, ActionMulliganTake:
		return fmt.Errorf("mulligan already complete")
	default:
		return fmt.Errorf("unknown action type %s", action.Type)
	}
}

func (e *Engine) mulligan(playerID string, redraw bool) error {
	p := e.player(playerID)
	if p.MulliganDone {
		return fmt.Errorf("%s already decided their hand", p.Name)
	}
	if redraw {
		// One redraw: the hand is shuffled back and the same count drawn.
		count := len(p.Hand)
		for _, id := range p.Hand {
			e.cards[id].Zone = rules.ZoneDeck
		}
		p.Deck = append(p.Deck, p.Hand...)
		p.Hand = nil
		e.shuffle(p.Deck)
		for i := 0; i < count; i++ {
			if err := e.drawCard(p); err != nil {
				return err
			}
		}
		e.logf("", "%s takes a new hand", p.Name)
	} else {
		e.logf("", "%s keeps their hand", p.Name)
	}
	p.MulliganDone = true

	for _, other := range e.players {
		if !other.MulliganDone {
			return nil
		}
	}
	e.turns.EndMulligan()
	e.enterStep()
	return nil
}

func (e *Engine) concede(playerID string) error {
	p := e.player(playerID)
	p.Conceded = true
	e.logf("", "%s concedes", p.Name)
	e.bus.Publish(rules.NewEvent(rules.EventPlayerConceded, "", "", playerID))
	e.endGame(e.opponent(playerID).ID)
	return nil
}

func (e *Engine) passPriority(playerID string) error {
	if e.turns.PriorityPlayer() != playerID {
		return fmt.Errorf("%s does not hold priority", playerID)
	}
	next, err := e.priority.NextAfter(playerID)
	if err != nil {
		return err
	}

	if e.chain.IsEmpty() {
		// Neutral pass: offer the window to the other player.
		e.turns.SetPriority(next)
		return nil
	}

	if e.priority.Pass(playerID) {
		return e.resolveTopChainItem()
	}
	e.turns.SetPriority(next)
	return nil
}

func (e *Engine) nextStep(playerID string) error {
	if playerID != e.turns.TurnPlayer() {
		return fmt.Errorf("only the turn player may advance the step")
	}
	if !e.chain.IsEmpty() {
		return fmt.Errorf("the chain must be empty before advancing")
	}

	// A queued showdown blocks progress: advancing resolves it instead.
	if e.turns.CurrentStep() == rules.StepAction {
		for _, bf := range e.battlefields {
			if bf.PendingShowdown {
				return e.resolveShowdown(bf)
			}
		}
	}

	next := e.turns.TurnPlayer()
	if e.turns.IsLastStep() {
		opp := e.opponent(e.turns.TurnPlayer())
		if opp != nil {
			next = opp.ID
		}
	}
	e.turns.AdvanceStep(next)
	e.enterStep()
	return nil
}

// enterStep runs the entered step's automatic obligations.
func (e *Engine) enterStep() {
	step := e.turns.CurrentStep()
	turnPlayer := e.player(e.turns.TurnPlayer())
	e.logf("", "Turn %d: %s step (%s)", e.turns.TurnNumber(), step, turnPlayer.Name)
	e.bus.Publish(rules.NewEvent(rules.EventStepChanged, "", "", turnPlayer.ID))

	switch step {
	case rules.StepAwaken:
		e.awaken(turnPlayer)
	case rules.StepScoring:
		e.scoreHold(turnPlayer)
	case rules.StepChannel:
		for turnPlayer.RuneDrawsUsed < channelPerTurn {
			if !e.channelRune(turnPlayer) {
				break
			}
		}
	case rules.StepDraw:
		if err := e.drawCard(turnPlayer); err != nil {
			return
		}
		e.bus.Publish(rules.NewEvent(rules.EventDrawStep, "", "", turnPlayer.ID))
	case rules.StepEnding:
		evt := rules.NewEvent(rules.EventEndingStep, "", "", turnPlayer.ID)
		e.bus.Publish(evt)
		e.fireTriggers(evt)
	case rules.StepExpiration:
		e.expiration()
	case rules.StepCleanup:
		e.sweepStateBasedActions()
	}
}

func (e *Engine) awaken(turnPlayer *Player) {
	e.bus.Publish(rules.NewEvent(rules.EventBeginTurn, "", "", turnPlayer.ID))
	for _, card := range e.cards {
		if card.Controller != turnPlayer.ID {
			continue
		}
		switch card.Zone {
		case rules.ZoneBoard, rules.ZoneRuneRow, rules.ZoneLegend:
			card.Ready = true
		}
	}
	for _, bf := range e.battlefields {
		bf.HeldFromTurnStart = bf.Controller
	}
	e.bus.Publish(rules.NewEvent(rules.EventAwakenStep, "", "", turnPlayer.ID))
}

// scoreHold awards a point per battlefield the turn player has controlled
// since the turn began. Hold is evaluated before any banked conquer
// points count toward the threshold check.
func (e *Engine) scoreHold(turnPlayer *Player) {
	for _, bf := range e.battlefields {
		if bf.Controller != turnPlayer.ID || bf.HeldFromTurnStart != turnPlayer.ID {
			continue
		}
		if card := e.cards[bf.CardID]; card != nil && card.Def.HasKeyword("NoHold") {
			e.logf("", "%s holds %s but it cannot be scored", turnPlayer.Name, card.Def.Name)
			continue
		}
		turnPlayer.Score++
		e.logf("", "%s scores 1 point for holding battlefield %d (%d total)", turnPlayer.Name, bf.Index, turnPlayer.Score)
		e.bus.Publish(rules.NewEventWithAmount(rules.EventHoldScored, bf.CardID, "", turnPlayer.ID, 1))
	}
	e.checkVictory()
	e.bus.Publish(rules.NewEvent(rules.EventScoringStep, "", "", turnPlayer.ID))
}

// channelRune moves the top rune to the row. It reports false when the
// rune deck is empty so callers stop trying.
func (e *Engine) channelRune(p *Player) bool {
	if len(p.RuneDeck) == 0 {
		e.logf("", "%s has no runes left to channel", p.Name)
		return false
	}
	id := p.RuneDeck[0]
	p.RuneDeck = p.RuneDeck[1:]
	card := e.cards[id]
	card.Zone = rules.ZoneRuneRow
	card.Ready = true
	p.RuneRow = append(p.RuneRow, id)
	p.RuneDrawsUsed++
	e.logf("", "%s channels %s", p.Name, card.Def.Name)
	e.bus.Publish(rules.NewEvent(rules.EventChanneledRune, id, "", p.ID))
	return true
}

// drawCard moves the top card of the deck to hand. Drawing from an empty
// deck is the burn-out loss, not an error.
func (e *Engine) drawCard(p *Player) error {
	if len(p.Deck) == 0 {
		e.burnOut(p)
		return fmt.Errorf("%s burned out", p.Name)
	}
	id := p.Deck[0]
	p.Deck = p.Deck[1:]
	e.cards[id].Zone = rules.ZoneHand
	p.Hand = append(p.Hand, id)
	e.logf(p.ID, "%s draws %s", p.Name, e.cards[id].Def.Name)
	e.logf("", "%s draws a card", p.Name)
	e.bus.Publish(rules.NewEvent(rules.EventDrewCard, id, "", p.ID))
	return nil
}

func (e *Engine) burnOut(p *Player) {
	p.Lost = true
	e.logf("", "%s burns out drawing from an empty deck", p.Name)
	e.bus.Publish(rules.NewEvent(rules.EventPlayerBurnedOut, "", "", p.ID))
	e.endGame(e.opponent(p.ID).ID)
}

// expiration clears everything scoped to the ending turn: unit damage,
// "this turn" modifiers, per-turn counters, floating rune pools.
func (e *Engine) expiration() {
	for _, card := range e.cards {
		if card.Zone == rules.ZoneBoard {
			card.Damage = 0
			card.MovesThisTurn = 0
		}
	}
	swept := e.modifiers.SweepTurn()
	if swept > 0 {
		e.logf("", "%d temporary modifiers expire", swept)
	}
	for _, p := range e.players {
		p.Pool.Empty()
		p.PlayedThisTurn = 0
		p.RuneDrawsUsed = 0
		p.GearCredit = 0
	}
	e.triggers.ExpireTurnScoped()
	e.watchers.ResetAll()
	e.bus.Publish(rules.NewEvent(rules.EventExpiration, "", "", e.turns.TurnPlayer()))
}

func (e *Engine) checkVictory() {
	for _, p := range e.players {
		if p.Score >= winningScore && !e.over {
			e.logf("", "%s reaches %d points and wins", p.Name, p.Score)
			e.endGame(p.ID)
		}
	}
}

func (e *Engine) endGame(winnerID string) {
	if e.over {
		return
	}
	e.over = true
	e.winner = winnerID
	if w := e.player(winnerID); w != nil {
		e.logf("", "%s wins the game", w.Name)
	}
	e.bus.Publish(rules.NewEvent(rules.EventPlayerWon, "", "", winnerID))
}

func (e *Engine) player(id string) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) opponent(id string) *Player {
	for _, p := range e.players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

func (e *Engine) logf(visibleTo string, format string, args ...any) {
	line := LogLine{
		Turn:      e.turnNumberSafe(),
		Text:      fmt.Sprintf(format, args...),
		VisibleTo: visibleTo,
	}
	e.gameLog = append(e.gameLog, line)
	e.logger.Debug("game log",
		zap.String("game_id", e.ID),
		zap.String("text", line.Text),
		zap.String("visible_to", visibleTo))
}

func (e *Engine) turnNumberSafe() int {
	if e.turns == nil {
		return 0
	}
	return e.turns.TurnNumber()
}

// FindCard implements rules.GameAccessor.
func (e *Engine) FindCard(cardID string) (rules.CardInfo, bool) {
	card, ok := e.cards[cardID]
	if !ok {
		return rules.CardInfo{}, false
	}
	return rules.CardInfo{
		ID:           card.ID,
		Name:         card.Def.Name,
		Type:         card.Def.Type,
		Zone:         card.Zone,
		Battlefield:  card.Battlefield,
		ControllerID: card.Controller,
		OwnerID:      card.Owner,
		Ready:        card.Ready,
		FaceDown:     card.Facedown,
	}, true
}

// FindPlayer implements rules.GameAccessor.
func (e *Engine) FindPlayer(playerID string) (rules.PlayerInfo, bool) {
	p := e.player(playerID)
	if p == nil {
		return rules.PlayerInfo{}, false
	}
	return rules.PlayerInfo{
		PlayerID: p.ID,
		Name:     p.Name,
		Score:    p.Score,
		Lost:     p.Lost,
		Left:     p.Conceded,
	}, true
}

// GetCardZone implements rules.GameAccessor.
func (e *Engine) GetCardZone(cardID string) (int, bool) {
	card, ok := e.cards[cardID]
	if !ok {
		return 0, false
	}
	return card.Zone, true
}

// TargetCandidates implements targeting.Accessor: face-up board cards.
func (e *Engine) TargetCandidates() []targeting.Candidate {
	var out []targeting.Candidate
	for _, card := range e.cards {
		if card.Zone != rules.ZoneBoard || card.Facedown || card.Def.Type == "Battlefield" {
			continue
		}
		out = append(out, targeting.Candidate{
			ID:          card.ID,
			Controller:  card.Controller,
			CardType:    card.Def.Type,
			Battlefield: card.Battlefield,
		})
	}
	return out
}
