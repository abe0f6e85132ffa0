package model

import "fmt"

// Policy selects how much of chess the rules engine enforces.
type Policy int

const (
	// PolicyBaseline only requires a piece on the source and forbids self-capture.
	PolicyBaseline Policy = iota
	// PolicyExtended adds per-piece movement geometry and path obstruction.
	PolicyExtended
	// PolicyStrict adds king safety and checkmate/stalemate detection.
	PolicyStrict
)

var policyNames = [...]string{"baseline", "extended", "strict"}

func (p Policy) String() string {
	if p < PolicyBaseline || p > PolicyStrict {
		return "unknown"
	}
	return policyNames[p]
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	for i, name := range policyNames {
		if name == s {
			return Policy(i), nil
		}
	}
	return PolicyExtended, fmt.Errorf("unknown rules policy %q", s)
}

// Reason says why the rules engine rejected a move.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoPieceAtSource
	ReasonSelfCapture
	ReasonIllegalGeometry
	ReasonObstructed
	ReasonKingInCheck
)

var reasonNames = [...]string{"none", "noPieceAtSource", "selfCapture", "illegalGeometry", "obstructed", "kingInCheck"}

func (r Reason) String() string {
	if r < ReasonNone || r > ReasonKingInCheck {
		return "unknown"
	}
	return reasonNames[r]
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r Reason) err() error {
	switch r {
	case ReasonNoPieceAtSource:
		return ErrNoPieceAtSource
	case ReasonSelfCapture:
		return ErrSelfCapture
	case ReasonIllegalGeometry:
		return ErrIllegalGeometry
	case ReasonObstructed:
		return ErrObstructed
	case ReasonKingInCheck:
		return ErrKingInCheck
	}
	return nil
}

var (
	rookDirs   = []Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
)

// IsLegal reports whether m is allowed on b under policy.
func IsLegal(b *Board, m Move, policy Policy) bool {
	return Evaluate(b, m, policy) == ReasonNone
}

// Evaluate checks m against b and returns ReasonNone when it is legal. It
// never mutates b and does not know whose turn it is.
func Evaluate(b *Board, m Move, policy Policy) Reason {
	if !m.From.onBoard() || !m.To.onBoard() {
		return ReasonIllegalGeometry
	}
	pc, ok := b.PieceAt(m.From)
	if !ok {
		return ReasonNoPieceAtSource
	}
	if target, ok := b.PieceAt(m.To); ok && target.Side == pc.Side {
		return ReasonSelfCapture
	}
	if policy == PolicyBaseline {
		return ReasonNone
	}
	if reason := checkGeometry(b, pc, m); reason != ReasonNone {
		return reason
	}
	if policy == PolicyStrict && leavesKingAttacked(b, m, pc.Side) {
		return ReasonKingInCheck
	}
	return ReasonNone
}

// checkGeometry dispatches on the piece type. The destination is already
// known not to hold a friendly piece.
func checkGeometry(b *Board, pc Piece, m Move) Reason {
	dRow, dCol := m.To.Row-m.From.Row, m.To.Col-m.From.Col
	if dRow == 0 && dCol == 0 {
		return ReasonIllegalGeometry
	}
	switch pc.Type {
	case Knight:
		if (abs(dRow) == 1 && abs(dCol) == 2) || (abs(dRow) == 2 && abs(dCol) == 1) {
			return ReasonNone
		}
		return ReasonIllegalGeometry
	case King:
		if abs(dRow) <= 1 && abs(dCol) <= 1 {
			return ReasonNone
		}
		return ReasonIllegalGeometry
	case Rook:
		if dRow != 0 && dCol != 0 {
			return ReasonIllegalGeometry
		}
		return checkPath(b, m)
	case Bishop:
		if abs(dRow) != abs(dCol) {
			return ReasonIllegalGeometry
		}
		return checkPath(b, m)
	case Queen:
		if dRow != 0 && dCol != 0 && abs(dRow) != abs(dCol) {
			return ReasonIllegalGeometry
		}
		return checkPath(b, m)
	case Pawn:
		return checkPawn(b, pc.Side, m, dRow, dCol)
	}
	return ReasonIllegalGeometry
}

// checkPath requires every square strictly between From and To to be empty.
func checkPath(b *Board, m Move) Reason {
	step := Position{Row: sign(m.To.Row - m.From.Row), Col: sign(m.To.Col - m.From.Col)}
	for sq := m.From.offset(step.Row, step.Col); sq != m.To; sq = sq.offset(step.Row, step.Col) {
		if b.occupied(sq) {
			return ReasonObstructed
		}
	}
	return ReasonNone
}

func checkPawn(b *Board, side Side, m Move, dRow, dCol int) Reason {
	fwd := side.forward()
	switch {
	case dCol == 0 && dRow == fwd:
		if b.occupied(m.To) {
			return ReasonObstructed
		}
		return ReasonNone
	case dCol == 0 && dRow == 2*fwd && m.From.Row == side.pawnRow():
		if b.occupied(m.From.offset(fwd, 0)) || b.occupied(m.To) {
			return ReasonObstructed
		}
		return ReasonNone
	case abs(dCol) == 1 && dRow == fwd:
		if b.occupied(m.To) {
			return ReasonNone
		}
		return ReasonIllegalGeometry
	}
	return ReasonIllegalGeometry
}

// leavesKingAttacked plays m on a scratch copy and looks at side's king.
func leavesKingAttacked(b *Board, m Move, side Side) bool {
	scratch := b.Clone()
	if _, _, err := scratch.Apply(m); err != nil {
		return true
	}
	return InCheck(scratch, side)
}

// InCheck reports whether side's king is attacked. A side without a king is
// never in check.
func InCheck(b *Board, side Side) bool {
	king, ok := b.Find(Piece{Side: side, Type: King})
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, side.Opponent())
}

// IsSquareAttacked reports whether any piece of attacker could capture on pos.
func IsSquareAttacked(b *Board, pos Position, attacker Side) bool {
	isAttacker := func(sq Position, kinds ...PieceType) bool {
		pc, ok := b.PieceAt(sq)
		if !ok || pc.Side != attacker {
			return false
		}
		for _, k := range kinds {
			if pc.Type == k {
				return true
			}
		}
		return false
	}
	ray := func(dirs []Position, kinds ...PieceType) bool {
		for _, dir := range dirs {
			for sq := pos.offset(dir.Row, dir.Col); sq.onBoard(); sq = sq.offset(dir.Row, dir.Col) {
				if b.occupied(sq) {
					if isAttacker(sq, kinds...) {
						return true
					}
					break
				}
			}
		}
		return false
	}
	if ray(rookDirs, Rook, Queen) || ray(bishopDirs, Bishop, Queen) {
		return true
	}
	for _, dir := range knightDirs {
		if sq := pos.offset(dir.Row, dir.Col); sq.onBoard() && isAttacker(sq, Knight) {
			return true
		}
	}
	for _, dir := range queenDirs {
		if sq := pos.offset(dir.Row, dir.Col); sq.onBoard() && isAttacker(sq, King) {
			return true
		}
	}
	// an attacking pawn sits one row behind pos from its own point of view
	back := -attacker.forward()
	for _, dCol := range []int{-1, 1} {
		if sq := pos.offset(back, dCol); sq.onBoard() && isAttacker(sq, Pawn) {
			return true
		}
	}
	return false
}

// Destinations lists the squares the piece on from may move to under policy.
// Under the baseline policy that is every square not holding a friendly piece.
func Destinations(b *Board, from Position, policy Policy) []Position {
	if _, ok := b.PieceAt(from); !ok {
		return nil
	}
	var out []Position
	for _, to := range candidateSquares(b, from, policy) {
		if Evaluate(b, Move{From: from, To: to}, policy) == ReasonNone {
			out = append(out, to)
		}
	}
	return out
}

// candidateSquares narrows the 64 squares down to the ones worth evaluating.
func candidateSquares(b *Board, from Position, policy Policy) []Position {
	pc, _ := b.PieceAt(from)
	if policy == PolicyBaseline {
		return AllPositions()
	}
	var out []Position
	step := func(dirs []Position) {
		for _, dir := range dirs {
			if sq := from.offset(dir.Row, dir.Col); sq.onBoard() {
				out = append(out, sq)
			}
		}
	}
	slide := func(dirs []Position) {
		for _, dir := range dirs {
			for sq := from.offset(dir.Row, dir.Col); sq.onBoard(); sq = sq.offset(dir.Row, dir.Col) {
				out = append(out, sq)
				if b.occupied(sq) {
					break
				}
			}
		}
	}
	switch pc.Type {
	case Pawn:
		fwd := pc.Side.forward()
		step([]Position{{Row: fwd, Col: 0}, {Row: 2 * fwd, Col: 0}, {Row: fwd, Col: -1}, {Row: fwd, Col: 1}})
	case Knight:
		step(knightDirs)
	case King:
		step(queenDirs)
	case Rook:
		slide(rookDirs)
	case Bishop:
		slide(bishopDirs)
	case Queen:
		slide(queenDirs)
	}
	return out
}

// LegalMoves lists every legal move for side, scanning rank 8 first.
func LegalMoves(b *Board, side Side, policy Policy) []Move {
	var moves []Move
	for _, from := range AllPositions() {
		pc, ok := b.PieceAt(from)
		if !ok || pc.Side != side {
			continue
		}
		for _, to := range Destinations(b, from, policy) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
