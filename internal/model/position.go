package model

import "fmt"

const boardSize = 8

// Position identifies one of the 64 squares. Row 0 is rank 8, column 0 is file a.
// The zero value is a8; values outside the board are only produced by the
// unexported offset helper and are never handed out.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewPosition validates a row/column pair.
func NewPosition(row, col int) (Position, error) {
	p := Position{Row: row, Col: col}
	if !p.onBoard() {
		return Position{}, fmt.Errorf("row %d col %d: %w", row, col, ErrOutOfRange)
	}
	return p, nil
}

// ParsePosition reads algebraic notation such as "e2".
func ParsePosition(text string) (Position, error) {
	if len(text) != 2 {
		return Position{}, fmt.Errorf("%q: %w", text, ErrMalformedNotation)
	}
	file, rank := text[0], text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("%q: %w", text, ErrMalformedNotation)
	}
	return Position{Row: int('8' - rank), Col: int(file - 'a')}, nil
}

// MustParsePosition is ParsePosition for fixed literals; it panics on bad input.
func MustParsePosition(text string) Position {
	p, err := ParsePosition(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Notation renders the position in algebraic notation.
func (p Position) Notation() string {
	return fmt.Sprintf("%c%c", 'a'+p.Col, '8'-p.Row)
}

func (p Position) String() string {
	return p.Notation()
}

func (p Position) file() string {
	return string(rune('a' + p.Col))
}

func (p Position) onBoard() bool {
	return p.Row >= 0 && p.Row < boardSize && p.Col >= 0 && p.Col < boardSize
}

func (p Position) offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// AllPositions lists the 64 squares rank 8 first, file a first.
func AllPositions() []Position {
	out := make([]Position, 0, boardSize*boardSize)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			out = append(out, Position{Row: row, Col: col})
		}
	}
	return out
}
