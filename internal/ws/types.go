package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeMoveResult MessageType = "moveResult"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeLegalMoves MessageType = "legalMoves"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload asks to move the piece on From to To, both in algebraic notation.
type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LegalMovesPayload asks for, or answers with, the targets of the piece on From.
type LegalMovesPayload struct {
	From    string   `json:"from"`
	Targets []string `json:"targets,omitempty"`
}

// ErrorPayload describes a rejected request.
type ErrorPayload struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewMessage wraps v as the payload of a message of type t.
func NewMessage(t MessageType, v interface{}) (Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: payload}, nil
}
