package model

import (
	"errors"
	"fmt"
	"strings"
)

// Move failures. Every one of them leaves the game untouched.
var (
	// ErrMalformedNotation indicates a square that is not a file a-h followed by a rank 1-8.
	ErrMalformedNotation = errors.New("malformed notation")

	// ErrOutOfRange indicates a row/column pair outside the board.
	ErrOutOfRange = errors.New("position out of range")

	// ErrNoPieceAtSource indicates an empty source square.
	ErrNoPieceAtSource = errors.New("no piece at source square")

	// ErrNotYourTurn indicates a piece of the side not to move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrIllegalMove indicates a move rejected by the rules engine.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver indicates the game has reached checkmate or stalemate.
	ErrGameOver = errors.New("game is over")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")
)

// Rule reasons, matched through errors.Is against a *MoveError.
var (
	ErrSelfCapture     = errors.New("cannot capture your own piece")
	ErrIllegalGeometry = errors.New("piece cannot move that way")
	ErrObstructed      = errors.New("path is obstructed")
	ErrKingInCheck     = errors.New("move leaves king in check")
)

// MoveError wraps a move failure with the squares and rule reason involved.
type MoveError struct {
	Err    error  // one of the move failure sentinels
	From   string // source square as requested
	To     string // destination square as requested
	Reason Reason // set when Err is ErrIllegalMove
}

func (e *MoveError) Error() string {
	var parts []string
	switch {
	case e.From != "" && e.To != "":
		parts = append(parts, fmt.Sprintf("%s-%s", e.From, e.To))
	case e.From != "":
		parts = append(parts, e.From)
	}
	parts = append(parts, e.Err.Error())
	if reason := e.Reason.err(); reason != nil {
		parts = append(parts, reason.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// Is lets callers test for the rule reason as well as the failure kind.
func (e *MoveError) Is(target error) bool {
	reason := e.Reason.err()
	return reason != nil && reason == target
}

func moveError(err error, from, to string, reason Reason) *MoveError {
	return &MoveError{Err: err, From: from, To: to, Reason: reason}
}
