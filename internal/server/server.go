// Package server exposes the action-intake/state-snapshot boundary over
// a websocket endpoint with JSON envelopes.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game"
)

// ClientMessage is the envelope clients send.
type ClientMessage struct {
	Type   string         `json:"type"` // "create", "action", "view"
	GameID string         `json:"gameId,omitempty"`
	Player string         `json:"player,omitempty"`
	Action *game.Action   `json:"action,omitempty"`
	Create *CreateRequest `json:"create,omitempty"`
}

// CreateRequest starts a new game from catalog card ids.
type CreateRequest struct {
	GameID       string        `json:"gameId"`
	Battlefields []string      `json:"battlefields"`
	Players      []PlayerSetup `json:"players"`
	Seed         int64         `json:"seed,omitempty"`
}

// PlayerSetup is one player's deck, as catalog ids.
type PlayerSetup struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Legend string   `json:"legend,omitempty"`
	Deck   []string `json:"deck"`
	Runes  []string `json:"runes"`
}

// ServerMessage is the envelope the server replies with.
type ServerMessage struct {
	Type   string         `json:"type"` // "view", "error", "created"
	GameID string         `json:"gameId,omitempty"`
	Error  string         `json:"error,omitempty"`
	View   *game.GameView `json:"view,omitempty"`
}

// Server hosts games and serves the websocket protocol.
type Server struct {
	logger   *zap.Logger
	registry *game.Registry
	catalog  carddata.Catalog
	upgrader websocket.Upgrader
}

func New(logger *zap.Logger, registry *game.Registry, catalog carddata.Catalog) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:   logger,
		registry: registry,
		catalog:  catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP mux with the websocket and health endpoints.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	s.logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("client read error", zap.Error(err))
			}
			return
		}
		reply := s.dispatch(msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("client write error", zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(msg ClientMessage) ServerMessage {
	switch msg.Type {
	case "create":
		return s.handleCreate(msg)
	case "action":
		return s.handleAction(msg)
	case "view":
		return s.handleView(msg)
	default:
		return errorMessage(msg.GameID, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (s *Server) handleCreate(msg ClientMessage) ServerMessage {
	req := msg.Create
	if req == nil {
		return errorMessage("", "create payload missing")
	}
	if len(req.Players) != 2 {
		return errorMessage(req.GameID, "exactly two players are required")
	}

	battlefields, err := s.resolveDefs(req.Battlefields)
	if err != nil {
		return errorMessage(req.GameID, err.Error())
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := game.NewEngine(s.logger, seed)

	decks := make([]game.DeckList, 0, 2)
	for _, setup := range req.Players {
		deck, err := s.resolveDefs(setup.Deck)
		if err != nil {
			return errorMessage(req.GameID, err.Error())
		}
		runeDeck, err := s.resolveDefs(setup.Runes)
		if err != nil {
			return errorMessage(req.GameID, err.Error())
		}
		dl := game.DeckList{
			Player: setup.ID,
			Name:   setup.Name,
			Cards:  deck,
			Runes:  runeDeck,
		}
		if setup.Legend != "" {
			legend, ok := s.catalog.Get(setup.Legend)
			if !ok {
				return errorMessage(req.GameID, fmt.Sprintf("unknown legend %s", setup.Legend))
			}
			dl.Legend = legend
		}
		decks = append(decks, dl)
	}

	if err := engine.StartGame(req.GameID, battlefields, decks...); err != nil {
		return errorMessage(req.GameID, err.Error())
	}
	if err := s.registry.Add(engine); err != nil {
		return errorMessage(req.GameID, err.Error())
	}
	s.logger.Info("game created", zap.String("game_id", req.GameID))
	return ServerMessage{Type: "created", GameID: req.GameID}
}

func (s *Server) handleAction(msg ClientMessage) ServerMessage {
	engine, ok := s.registry.Get(msg.GameID)
	if !ok {
		return errorMessage(msg.GameID, fmt.Sprintf("game %s not found", msg.GameID))
	}
	if msg.Action == nil {
		return errorMessage(msg.GameID, "action payload missing")
	}
	action := *msg.Action
	if action.Player == "" {
		action.Player = msg.Player
	}
	if err := engine.ProcessAction(action); err != nil {
		return errorMessage(msg.GameID, err.Error())
	}
	view := engine.View(action.Player)
	return ServerMessage{Type: "view", GameID: msg.GameID, View: &view}
}

func (s *Server) handleView(msg ClientMessage) ServerMessage {
	engine, ok := s.registry.Get(msg.GameID)
	if !ok {
		return errorMessage(msg.GameID, fmt.Sprintf("game %s not found", msg.GameID))
	}
	view := engine.View(msg.Player)
	return ServerMessage{Type: "view", GameID: msg.GameID, View: &view}
}

func (s *Server) resolveDefs(ids []string) ([]carddata.Definition, error) {
	out := make([]carddata.Definition, 0, len(ids))
	for _, id := range ids {
		def, ok := s.catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("unknown card id %s", id)
		}
		out = append(out, def)
	}
	return out, nil
}

func errorMessage(gameID, text string) ServerMessage {
	return ServerMessage{Type: "error", GameID: gameID, Error: text}
}
