package model

import "fmt"

// Side is one of the two players.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// forward is the row delta a pawn of this side advances by.
func (s Side) forward() int {
	if s == White {
		return -1
	}
	return 1
}

// pawnRow is the row a pawn of this side starts on.
func (s Side) pawnRow() int {
	if s == White {
		return 6
	}
	return 1
}

// ParseSide accepts "white"/"w" and "black"/"b".
func ParseSide(s string) (Side, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown side %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

type PieceType int

const (
	Pawn PieceType = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

var pieceNames = [...]string{"pawn", "rook", "knight", "bishop", "queen", "king"}

func (p PieceType) String() string {
	if p < Pawn || p > King {
		return "unknown"
	}
	return pieceNames[p]
}

// letter is the uppercase glyph of the piece type.
func (p PieceType) letter() rune {
	switch p {
	case Pawn:
		return 'P'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '?'
}

// notation is the piece prefix used in move notation; pawns have none.
func (p PieceType) notation() string {
	if p == Pawn {
		return ""
	}
	return string(p.letter())
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceNames {
		if name == string(text) {
			*p = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// Piece is an immutable side + kind pair.
type Piece struct {
	Side Side      `json:"color"`
	Type PieceType `json:"type"`
}

func NewPiece(side Side, kind PieceType) Piece {
	return Piece{Side: side, Type: kind}
}

// Glyph returns the display letter: uppercase for White, lowercase for Black.
func (p Piece) Glyph() rune {
	r := p.Type.letter()
	if p.Side == Black {
		return r + ('a' - 'A')
	}
	return r
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Side, p.Type)
}

// PieceFromGlyph is the inverse of Glyph.
func PieceFromGlyph(r rune) (Piece, bool) {
	side := White
	if r >= 'a' && r <= 'z' {
		side = Black
		r -= 'a' - 'A'
	}
	for kind := Pawn; kind <= King; kind++ {
		if kind.letter() == r {
			return Piece{Side: side, Type: kind}, true
		}
	}
	return Piece{}, false
}
