package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serializes writes; broadcasts from other players' moves share the
// connection with this handler's replies.
type lockedConn struct {
	mu sync.Mutex
	*websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Conn.WriteJSON(v)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(conn *websocket.Conn) {
	gameID := conn.Params("gameId")
	playerID, _ := conn.Locals(middleware.PlayerIDKey).(string)
	c := &lockedConn{Conn: conn}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("register connection for player %s in game %s: %v", playerID, gameID, err)
		wsc.send(c, ws.MessageTypeError, errorPayload(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read from player %s in game %s: %v", playerID, gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.send(c, ws.MessageTypeError, ws.ErrorPayload{Error: "malformed message"})
			continue
		}
		reply, payload := wsc.handleMessage(gameID, playerID, msg)
		wsc.send(c, reply, payload)
	}
}

// handleMessage answers one client message. Accepted moves also reach every
// observer through the game state broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (ws.MessageType, interface{}) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return ws.MessageTypeError, ws.ErrorPayload{Error: "malformed move payload"}
		}
		outcome, err := wsc.gameService.HandleMove(gameID, playerID, move)
		if err != nil {
			return ws.MessageTypeError, errorPayload(err)
		}
		return ws.MessageTypeMoveResult, outcome

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return ws.MessageTypeError, ws.ErrorPayload{Error: "malformed legal moves payload"}
		}
		targets, err := wsc.gameService.LegalTargets(gameID, req.From)
		if err != nil {
			return ws.MessageTypeError, errorPayload(err)
		}
		return ws.MessageTypeLegalMoves, ws.LegalMovesPayload{From: req.From, Targets: targets}

	case ws.MessageTypeGameState:
		state, err := wsc.gameService.GetGameState(gameID)
		if err != nil {
			return ws.MessageTypeError, errorPayload(err)
		}
		return ws.MessageTypeGameState, state
	}
	return ws.MessageTypeError, ws.ErrorPayload{Error: fmt.Sprintf("unknown message type: %s", msg.Type)}
}

func (wsc *WebSocketController) send(c *lockedConn, t ws.MessageType, v interface{}) {
	msg, err := ws.NewMessage(t, v)
	if err != nil {
		log.Errorf("encode %s message: %v", t, err)
		return
	}
	if err := c.WriteJSON(msg); err != nil {
		log.Debugf("write %s message: %v", t, err)
	}
}
