package model

import (
	"fmt"
	"strconv"
	"strings"
)

// maxFullmove bounds the fullmove field so the move count cannot overflow.
const maxFullmove = 1 << 20

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// Placement returns the piece placement field of FEN.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := 0; row < boardSize; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < boardSize; col++ {
			pc := b.squares[row][col]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(pc.Glyph())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	return sb.String()
}

// FEN serializes the board and turn. Castling and en passant are not
// tracked, so those fields are always "-" and the halfmove clock is 0.
func (g *Game) FEN() string {
	side := "w"
	if g.toMove == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s - - 0 %d", g.board.Placement(), side, g.moveCount/2+1)
}

// ParseFEN builds a game from a FEN string. Only the placement, side to move
// and fullmove fields are used; missing trailing fields default as in
// InitialFEN.
func ParseFEN(fen string, opts ...Option) (*Game, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty: %w", ErrInvalidFEN)
	}
	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}

	g := NewGame(opts...)
	g.board = board
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
			g.toMove = White
		case "b":
			g.toMove = Black
		default:
			return nil, fmt.Errorf("side to move %q: %w", fields[1], ErrInvalidFEN)
		}
	}
	fullmove := 1
	if len(fields) > 5 {
		fullmove, err = strconv.Atoi(fields[5])
		if err != nil || fullmove < 1 || fullmove > maxFullmove {
			return nil, fmt.Errorf("fullmove number %q: %w", fields[5], ErrInvalidFEN)
		}
	}
	g.moveCount = (fullmove - 1) * 2
	if g.toMove == Black {
		g.moveCount++
	}
	if g.policy == PolicyStrict {
		g.status = g.evaluateStatus(InCheck(g.board, g.toMove))
	}
	return g, nil
}

func parsePlacement(field string) (*Board, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != boardSize {
		return nil, fmt.Errorf("expected %d ranks, got %d: %w", boardSize, len(ranks), ErrInvalidFEN)
	}
	b := NewBoard()
	for row, rank := range ranks {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			pc, ok := PieceFromGlyph(r)
			if !ok {
				return nil, fmt.Errorf("unknown piece %q: %w", r, ErrInvalidFEN)
			}
			if col >= boardSize {
				return nil, fmt.Errorf("rank %d overflows: %w", boardSize-row, ErrInvalidFEN)
			}
			b.Place(Position{Row: row, Col: col}, pc)
			col++
		}
		if col != boardSize {
			return nil, fmt.Errorf("rank %d has %d files: %w", boardSize-row, col, ErrInvalidFEN)
		}
	}
	return b, nil
}
