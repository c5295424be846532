package game

import (
	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/runes"
)

// CardView is the external projection of one card instance.
type CardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Cost        string `json:"cost,omitempty"`
	Might       int    `json:"might,omitempty"`
	Damage      int    `json:"damage,omitempty"`
	Ready       bool   `json:"ready"`
	Buffed      bool   `json:"buffed,omitempty"`
	Token       bool   `json:"token,omitempty"`
	Battlefield int    `json:"battlefield"`
	Controller  string `json:"controller,omitempty"`
	Text        string `json:"text,omitempty"`
}

// PlayerView shows one player's visible state. Hand contents appear only
// in the owner's own view; opponents see counts.
type PlayerView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Score         int            `json:"score"`
	HandCount     int            `json:"handCount"`
	Hand          []CardView     `json:"hand,omitempty"`
	DeckCount     int            `json:"deckCount"`
	RuneDeckCount int            `json:"runeDeckCount"`
	RuneRow       []CardView     `json:"runeRow"`
	Base          []CardView     `json:"base"`
	Trash         []CardView     `json:"trash"`
	Legend        *CardView      `json:"legend,omitempty"`
	Energy        int            `json:"energy"`
	Power         map[string]int `json:"power"`
	GearCredit    int            `json:"gearCredit,omitempty"`
}

// BattlefieldView shows a battlefield and its units. The hidden card's
// identity appears only in its controller's view.
type BattlefieldView struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Controller string     `json:"controller,omitempty"`
	Units      []CardView `json:"units"`
	HasHidden  bool       `json:"hasHidden"`
	Hidden     *CardView  `json:"hidden,omitempty"`
	Text       string     `json:"text,omitempty"`
}

// ChainItemView is one pending chain item.
type ChainItemView struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Controller  string   `json:"controller"`
	Description string   `json:"description"`
	Targets     []string `json:"targets,omitempty"`
}

// ChoiceView shows the open pending choice. The eligible pool is only
// listed for the prompted player.
type ChoiceView struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Player   string   `json:"player"`
	Prompt   string   `json:"prompt"`
	Count    int      `json:"count,omitempty"`
	Eligible []string `json:"eligible,omitempty"`
}

// GameView is the per-player snapshot of the whole game.
type GameView struct {
	ID             string            `json:"id"`
	Turn           int               `json:"turn"`
	Stage          string            `json:"stage"`
	Step           string            `json:"step"`
	TurnPlayer     string            `json:"turnPlayer"`
	PriorityPlayer string            `json:"priorityPlayer"`
	ChainState     string            `json:"chainState"`
	Chain          []ChainItemView   `json:"chain"`
	Players        []PlayerView      `json:"players"`
	Battlefields   []BattlefieldView `json:"battlefields"`
	Pending        *ChoiceView       `json:"pending,omitempty"`
	Log            []string          `json:"log"`
	Winner         string            `json:"winner,omitempty"`
	Over           bool              `json:"over"`
}

// View builds the filtered snapshot for one player. Hidden information
// (the opponent's hand and deck, facedown cards, private log lines) is
// masked out.
func (e *Engine) View(forPlayer string) GameView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := GameView{
		ID:             e.ID,
		Turn:           e.turns.TurnNumber(),
		Stage:          e.turns.CurrentStage().String(),
		Step:           e.turns.CurrentStep().String(),
		TurnPlayer:     e.turns.TurnPlayer(),
		PriorityPlayer: e.turns.PriorityPlayer(),
		ChainState:     string(e.priority.State()),
		Winner:         e.winner,
		Over:           e.over,
	}

	for _, item := range e.chain.List() {
		view.Chain = append(view.Chain, ChainItemView{
			ID:          item.ID,
			Kind:        string(item.Kind),
			Controller:  item.Controller,
			Description: item.Description,
			Targets:     item.Targets,
		})
	}

	for _, p := range e.players {
		pv := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Score:         p.Score,
			HandCount:     len(p.Hand),
			DeckCount:     len(p.Deck),
			RuneDeckCount: len(p.RuneDeck),
			Energy:        p.Pool.Energy(),
			Power:         powerMap(p.Pool),
			GearCredit:    p.GearCredit,
		}
		if p.ID == forPlayer {
			for _, id := range p.Hand {
				pv.Hand = append(pv.Hand, e.cardView(id))
			}
		}
		for _, id := range p.RuneRow {
			pv.RuneRow = append(pv.RuneRow, e.cardView(id))
		}
		for _, id := range p.Trash {
			pv.Trash = append(pv.Trash, e.cardView(id))
		}
		if p.Legend != "" {
			lv := e.cardView(p.Legend)
			pv.Legend = &lv
		}
		for _, card := range e.cards {
			if card.Zone == rules.ZoneBoard && card.Controller == p.ID &&
				card.Battlefield == -1 && card.Def.Type != "Battlefield" {
				pv.Base = append(pv.Base, e.cardView(card.ID))
			}
		}
		view.Players = append(view.Players, pv)
	}

	for _, bf := range e.battlefields {
		bfCard := e.cards[bf.CardID]
		bv := BattlefieldView{
			Index:      bf.Index,
			Controller: bf.Controller,
			HasHidden:  bf.Hidden != "",
		}
		if bfCard != nil {
			bv.Name = bfCard.Def.Name
			bv.Text = bfCard.Def.Text
		}
		for _, unit := range e.boardUnitsAt(bf.Index) {
			bv.Units = append(bv.Units, e.cardView(unit.ID))
		}
		if bf.Hidden != "" {
			if hidden, ok := e.cards[bf.Hidden]; ok && hidden.Controller == forPlayer {
				hv := e.cardView(bf.Hidden)
				bv.Hidden = &hv
			}
		}
		view.Battlefields = append(view.Battlefields, bv)
	}

	if e.pending != nil {
		cv := &ChoiceView{
			ID:     e.pending.ID,
			Kind:   string(e.pending.Kind),
			Player: e.pending.Player,
			Prompt: e.pending.Prompt,
			Count:  e.pending.Count,
		}
		if e.pending.Player == forPlayer {
			cv.Eligible = append([]string(nil), e.pending.Eligible...)
		}
		view.Pending = cv
	}

	for _, line := range e.gameLog {
		if line.VisibleTo == "" || line.VisibleTo == forPlayer {
			view.Log = append(view.Log, line.Text)
		}
	}
	return view
}

func (e *Engine) cardView(id string) CardView {
	card, ok := e.cards[id]
	if !ok {
		return CardView{ID: id}
	}
	return CardView{
		ID:          card.ID,
		Name:        card.Def.Name,
		Type:        card.Def.Type,
		Cost:        card.Def.Cost,
		Might:       card.EffectiveMight(e.modifiers, card.Role),
		Damage:      card.Damage,
		Ready:       card.Ready,
		Buffed:      card.Buffed,
		Token:       card.Token,
		Battlefield: card.Battlefield,
		Controller:  card.Controller,
		Text:        card.Def.Text,
	}
}

func powerMap(pool *runes.Pool) map[string]int {
	out := make(map[string]int)
	for _, d := range runes.Domains {
		if amount := pool.Power(d); amount > 0 {
			out[string(d)] = amount
		}
	}
	return out
}

// GameLog returns the public log lines, for audit reconstruction.
func (e *Engine) GameLog() []LogLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]LogLine(nil), e.gameLog...)
}

// Over reports whether the game has ended and who won.
func (e *Engine) Over() (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.over, e.winner
}
