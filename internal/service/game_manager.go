// service/game_manager.go
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// GameManager owns every live session. Its lock only guards the registry;
// each session serializes its own moves.
type GameManager struct {
	games      map[string]*Session
	policy     model.Policy
	clockLimit time.Duration
	mu         sync.RWMutex
}

func NewGameManager(policy model.Policy, clockLimit time.Duration) *GameManager {
	return &GameManager{
		games:      make(map[string]*Session),
		policy:     policy,
		clockLimit: clockLimit,
	}
}

// CreateGame registers a new session. An empty fen starts from the standard setup.
func (gm *GameManager) CreateGame(gameID, fen string) error {
	game := model.NewGame(model.WithPolicy(gm.policy))
	if fen != "" {
		var err error
		if game, err = model.ParseFEN(fen, model.WithPolicy(gm.policy)); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = newSession(gameID, game, gm.clockLimit)
	log.Infof("created game %s (%s rules)", gameID, gm.policy)
	return nil
}

func (gm *GameManager) GetSession(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	return session, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Side, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return model.White, err
	}
	side, err := session.addPlayer(playerID)
	if err != nil {
		return side, err
	}
	log.Infof("player %s took %s in game %s", playerID, side, gameID)
	return side, nil
}

func (gm *GameManager) GetGameState(gameID string) (SessionState, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return SessionState{}, err
	}
	return session.State(), nil
}

// MakeMove plays a move and pushes the new state to every observer.
func (gm *GameManager) MakeMove(gameID, playerID, from, to string) (model.MoveOutcome, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return model.MoveOutcome{}, err
	}
	out, _, err := session.move(playerID, from, to)
	if err != nil {
		return model.MoveOutcome{}, err
	}
	return out, nil
}

func (gm *GameManager) LegalTargets(gameID, square string) ([]string, error) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return nil, err
	}
	return session.legalTargets(square)
}

// RegisterConnection attaches conn to the session and sends it the current
// state. A duplicate connection for the same player is closed.
func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return err
	}
	added, err := session.attach(playerID, conn)
	if err != nil {
		return err
	}
	if !added {
		log.Warnf("player %s already connected to game %s, closing new connection", playerID, gameID)
		return conn.Close()
	}
	log.Infof("registered connection for player %s in game %s", playerID, gameID)
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Conn) {
	session, err := gm.GetSession(gameID)
	if err != nil {
		return
	}
	session.observers.remove(playerID, conn)
	log.Infof("unregistered connection for player %s in game %s", playerID, gameID)
}

// GameCount reports how many sessions are registered.
func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
