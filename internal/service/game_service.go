package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a new session under a fresh ID, optionally from a FEN position.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (SessionState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID, playerID string, move ws.MovePayload) (model.MoveOutcome, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move.From, move.To)
}

func (gs *GameService) LegalTargets(gameID, square string) ([]string, error) {
	return gs.gameManager.LegalTargets(gameID, square)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func stateMessage(state SessionState) (ws.Message, error) {
	return ws.NewMessage(ws.MessageTypeGameState, state)
}
