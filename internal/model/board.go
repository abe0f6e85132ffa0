package model

import "fmt"

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is the dense 8x8 grid of optional pieces. It knows nothing about
// turns or legality.
type Board struct {
	squares [boardSize][boardSize]*Piece
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// InitialBoard returns the standard starting position.
func InitialBoard() *Board {
	b := NewBoard()
	for col := 0; col < boardSize; col++ {
		b.squares[0][col] = &Piece{Side: Black, Type: backRank[col]}
		b.squares[1][col] = &Piece{Side: Black, Type: Pawn}
		b.squares[6][col] = &Piece{Side: White, Type: Pawn}
		b.squares[7][col] = &Piece{Side: White, Type: backRank[col]}
	}
	return b
}

// PieceAt returns the piece on pos and whether the square is occupied.
func (b *Board) PieceAt(pos Position) (Piece, bool) {
	if !pos.onBoard() {
		return Piece{}, false
	}
	pc := b.squares[pos.Row][pos.Col]
	if pc == nil {
		return Piece{}, false
	}
	return *pc, true
}

func (b *Board) occupied(pos Position) bool {
	return b.squares[pos.Row][pos.Col] != nil
}

// Place puts a piece on pos, replacing whatever was there. Used for setup.
func (b *Board) Place(pos Position, pc Piece) {
	b.squares[pos.Row][pos.Col] = &pc
}

// Clear empties pos.
func (b *Board) Clear(pos Position) {
	b.squares[pos.Row][pos.Col] = nil
}

// Apply relocates the occupant of m.From to m.To, discarding any piece already
// on m.To, and returns that captured piece. Legality is the caller's job; only
// the board bounds are enforced, and an out-of-range move leaves the board as is.
func (b *Board) Apply(m Move) (captured Piece, ok bool, err error) {
	if !m.From.onBoard() || !m.To.onBoard() {
		return Piece{}, false, fmt.Errorf("apply %v: %w", m, ErrOutOfRange)
	}
	moving := b.squares[m.From.Row][m.From.Col]
	if prev := b.squares[m.To.Row][m.To.Col]; prev != nil && m.From != m.To {
		captured, ok = *prev, true
	}
	b.squares[m.From.Row][m.From.Col] = nil
	b.squares[m.To.Row][m.To.Col] = moving
	return captured, ok, nil
}

// Clone returns an independent copy. Pieces are immutable so the pointers are shared.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Count returns how many pieces of side are on the board.
func (b *Board) Count(side Side) int {
	n := 0
	for _, row := range b.squares {
		for _, pc := range row {
			if pc != nil && pc.Side == side {
				n++
			}
		}
	}
	return n
}

// Find returns the first square, rank 8 first, holding pc.
func (b *Board) Find(pc Piece) (Position, bool) {
	for _, pos := range AllPositions() {
		if got, ok := b.PieceAt(pos); ok && got == pc {
			return pos, true
		}
	}
	return Position{}, false
}

// Glyphs renders the board as display runes, '.' for an empty square.
func (b *Board) Glyphs() Grid {
	var grid Grid
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			grid[row][col] = EmptyGlyph
			if pc := b.squares[row][col]; pc != nil {
				grid[row][col] = pc.Glyph()
			}
		}
	}
	return grid
}

// EmptyGlyph marks an unoccupied square in rendered output.
const EmptyGlyph = '.'

// Grid is a rendered board, rank 8 first, file a first.
type Grid [boardSize][boardSize]rune
