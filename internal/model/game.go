package model

import "fmt"

// Status is the terminal state of a game. Only PolicyStrict ever leaves StatusActive.
type Status int

const (
	StatusActive Status = iota
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	}
	return "active"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{StatusActive, StatusCheckmate, StatusStalemate} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Over reports whether the game accepts no further moves.
func (s Status) Over() bool {
	return s != StatusActive
}

// Game owns one board and the turn bookkeeping around it. It is not safe for
// concurrent use; callers serialize access.
type Game struct {
	board     *Board
	toMove    Side
	moveCount int
	policy    Policy
	status    Status
	history   []Ply
}

type Option func(*Game)

// WithPolicy selects the rules policy. The default is PolicyExtended.
func WithPolicy(p Policy) Option {
	return func(g *Game) {
		g.policy = p
	}
}

// NewGame starts a game from the standard setup with White to move.
func NewGame(opts ...Option) *Game {
	g := &Game{
		board:  InitialBoard(),
		toMove: White,
		policy: PolicyExtended,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AttemptMove validates and plays a move given in algebraic notation.
func (g *Game) AttemptMove(from, to string) (MoveOutcome, error) {
	src, err := ParsePosition(from)
	if err != nil {
		return MoveOutcome{}, moveError(ErrMalformedNotation, from, to, ReasonNone)
	}
	dst, err := ParsePosition(to)
	if err != nil {
		return MoveOutcome{}, moveError(ErrMalformedNotation, from, to, ReasonNone)
	}
	return g.attempt(Move{From: src, To: dst}, from, to)
}

// AttemptMoveAt is AttemptMove for row/column coordinates.
func (g *Game) AttemptMoveAt(from, to Position) (MoveOutcome, error) {
	if !from.onBoard() || !to.onBoard() {
		return MoveOutcome{}, &MoveError{Err: ErrOutOfRange}
	}
	return g.attempt(Move{From: from, To: to}, from.Notation(), to.Notation())
}

func (g *Game) attempt(m Move, from, to string) (MoveOutcome, error) {
	if g.status.Over() {
		return MoveOutcome{}, moveError(ErrGameOver, from, to, ReasonNone)
	}
	pc, ok := g.board.PieceAt(m.From)
	if !ok {
		return MoveOutcome{}, moveError(ErrNoPieceAtSource, from, to, ReasonNoPieceAtSource)
	}
	if pc.Side != g.toMove {
		return MoveOutcome{}, moveError(ErrNotYourTurn, from, to, ReasonNone)
	}
	if reason := Evaluate(g.board, m, g.policy); reason != ReasonNone {
		return MoveOutcome{}, moveError(ErrIllegalMove, from, to, reason)
	}

	san := notation(g.board, m, pc)
	captured, took, err := g.board.Apply(m)
	if err != nil {
		return MoveOutcome{}, moveError(ErrOutOfRange, from, to, ReasonNone)
	}
	g.moveCount++
	g.toMove = g.toMove.Opponent()

	check := InCheck(g.board, g.toMove)
	if g.policy == PolicyStrict {
		g.status = g.evaluateStatus(check)
		switch {
		case g.status == StatusCheckmate:
			san += "#"
		case check:
			san += "+"
		}
	}

	out := MoveOutcome{
		Move:       m,
		Piece:      pc,
		SideToMove: g.toMove,
		MoveCount:  g.moveCount,
		Check:      check,
		Status:     g.status,
		Notation:   san,
	}
	ply := Ply{Number: g.moveCount, Piece: pc, From: from, To: to, Notation: san}
	if took {
		out.Captured = &captured
		ply.CapturedPiece = &captured
	}
	g.history = append(g.history, ply)
	return out, nil
}

// evaluateStatus decides whether the side to move has any way out.
func (g *Game) evaluateStatus(check bool) Status {
	if len(LegalMoves(g.board, g.toMove, g.policy)) > 0 {
		return StatusActive
	}
	if check {
		return StatusCheckmate
	}
	return StatusStalemate
}

// Board returns a copy of the board; mutating it does not affect the game.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) PieceAt(pos Position) (Piece, bool) {
	return g.board.PieceAt(pos)
}

func (g *Game) SideToMove() Side {
	return g.toMove
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) Policy() Policy {
	return g.policy
}

func (g *Game) Status() Status {
	return g.status
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return InCheck(g.board, g.toMove)
}

// History returns the accepted moves in order.
func (g *Game) History() []Ply {
	out := make([]Ply, len(g.history))
	copy(out, g.history)
	return out
}

// Render returns the display glyphs, rank 8 first.
func (g *Game) Render() Grid {
	return g.board.Glyphs()
}

// LegalMovesFrom lists the destinations of the piece on square, which must
// belong to the side to move.
func (g *Game) LegalMovesFrom(square string) ([]Position, error) {
	from, err := ParsePosition(square)
	if err != nil {
		return nil, moveError(ErrMalformedNotation, square, "", ReasonNone)
	}
	pc, ok := g.board.PieceAt(from)
	if !ok {
		return nil, moveError(ErrNoPieceAtSource, square, "", ReasonNoPieceAtSource)
	}
	if pc.Side != g.toMove || g.status.Over() {
		return nil, nil
	}
	return Destinations(g.board, from, g.policy), nil
}

// LegalMoves lists every legal move for the side to move.
func (g *Game) LegalMoves() []Move {
	if g.status.Over() {
		return nil
	}
	return LegalMoves(g.board, g.toMove, g.policy)
}
