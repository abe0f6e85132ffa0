package model

import "fmt"

// Move is a request to relocate the piece on From to To.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// ParseMove reads long algebraic notation such as "e2e4".
func ParseMove(text string) (Move, error) {
	if len(text) != 4 {
		return Move{}, fmt.Errorf("%q: %w", text, ErrMalformedNotation)
	}
	from, err := ParsePosition(text[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParsePosition(text[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

func (m Move) String() string {
	return m.From.Notation() + m.To.Notation()
}

// Ply is one accepted move as recorded in the game history.
type Ply struct {
	Number        int    `json:"number"`
	Piece         Piece  `json:"piece"`
	From          string `json:"from"`
	To            string `json:"to"`
	CapturedPiece *Piece `json:"capturedPiece"`
	Notation      string `json:"notation"`
}

// MoveOutcome reports the result of an accepted move.
type MoveOutcome struct {
	Move       Move   `json:"move"`
	Piece      Piece  `json:"piece"`
	Captured   *Piece `json:"captured"`
	SideToMove Side   `json:"sideToMove"`
	MoveCount  int    `json:"moveCount"`
	Check      bool   `json:"check"`
	Status     Status `json:"status"`
	Notation   string `json:"notation"`
}

// notation builds the short algebraic form of a move before it is applied.
func notation(b *Board, m Move, pc Piece) string {
	capture := ""
	if b.occupied(m.To) {
		capture = "x"
	}
	pawnFile := ""
	if pc.Type == Pawn && capture != "" {
		pawnFile = m.From.file()
	}
	return fmt.Sprintf("%s%s%s%s", pc.Type.notation(), pawnFile, capture, m.To.Notation())
}
