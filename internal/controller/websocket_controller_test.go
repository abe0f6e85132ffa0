package controller

import (
	"encoding/json"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/testutil"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

func rawMessage(t *testing.T, typ ws.MessageType, payload interface{}) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(typ, payload)
	testutil.AssertNoError(t, err)
	return msg
}

func TestHandleMessage(t *testing.T) {
	gs := service.NewGameService(service.NewGameManager(model.PolicyExtended, 0))
	gameID, err := gs.CreateGame("")
	testutil.AssertNoError(t, err)
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")
	wsc := NewWebSocketController(gs)

	typ, payload := wsc.handleMessage(gameID, "alice", rawMessage(t, ws.MessageTypeMove, ws.MovePayload{From: "g1", To: "f3"}))
	testutil.AssertEqual(t, typ, ws.MessageTypeMoveResult)
	outcome, ok := payload.(model.MoveOutcome)
	testutil.AssertTrue(t, ok, "payload is a move outcome")
	testutil.AssertEqual(t, outcome.Notation, "Nf3")

	typ, payload = wsc.handleMessage(gameID, "alice", rawMessage(t, ws.MessageTypeMove, ws.MovePayload{From: "f3", To: "e5"}))
	testutil.AssertEqual(t, typ, ws.MessageTypeError)
	testutil.AssertTrue(t, payload.(ws.ErrorPayload).Error != "", "not your turn reported")

	typ, payload = wsc.handleMessage(gameID, "bob", rawMessage(t, ws.MessageTypeMove, ws.MovePayload{From: "c8", To: "e6"}))
	testutil.AssertEqual(t, typ, ws.MessageTypeError)
	testutil.AssertEqual(t, payload.(ws.ErrorPayload).Reason, "obstructed")

	typ, payload = wsc.handleMessage(gameID, "bob", rawMessage(t, ws.MessageTypeLegalMoves, ws.LegalMovesPayload{From: "b8"}))
	testutil.AssertEqual(t, typ, ws.MessageTypeLegalMoves)
	testutil.AssertEqual(t, payload.(ws.LegalMovesPayload).Targets, []string{"c6", "a6"})

	typ, payload = wsc.handleMessage(gameID, "bob", ws.Message{Type: ws.MessageTypeGameState})
	testutil.AssertEqual(t, typ, ws.MessageTypeGameState)
	testutil.AssertEqual(t, payload.(service.SessionState).MoveCount, 1)

	typ, _ = wsc.handleMessage(gameID, "bob", ws.Message{Type: "resign"})
	testutil.AssertEqual(t, typ, ws.MessageTypeError)

	typ, _ = wsc.handleMessage(gameID, "bob", ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`[1,2]`)})
	testutil.AssertEqual(t, typ, ws.MessageTypeError)
}
