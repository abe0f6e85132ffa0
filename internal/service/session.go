package service

import (
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// Session is one game plus the people attached to it. Every access to the
// game goes through mu, so moves on the same session never overlap.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	game     *model.Game
	seats    map[model.Side]string // side -> playerID
	clocks   map[model.Side]*Clock
	lastMove *model.Move

	observers *Observers
}

// Seat is a player's view of one side of the board.
type Seat struct {
	PlayerID string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int64  `json:"timeLeft"` // milliseconds, 0 when clocks are disabled
}

// SessionState is the snapshot sent to clients.
type SessionState struct {
	ID        string       `json:"id"`
	Board     []string     `json:"board"` // eight rows of glyphs, rank 8 first
	FEN       string       `json:"fen"`
	ToMove    model.Side   `json:"toMove"`
	MoveCount int          `json:"moveCount"`
	Policy    string       `json:"policy"`
	Status    model.Status `json:"status"`
	IsCheck   bool         `json:"isCheck"`
	History   []model.Ply  `json:"moveHistory"`
	LastMove  *model.Move  `json:"lastMove"`
	Players   struct {
		White Seat `json:"white"`
		Black Seat `json:"black"`
	} `json:"players"`
}

func newSession(id string, game *model.Game, clockLimit time.Duration) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		game:      game,
		seats:     make(map[model.Side]string),
		observers: NewObservers(),
	}
	if clockLimit > 0 {
		s.clocks = map[model.Side]*Clock{
			model.White: NewClock(clockLimit),
			model.Black: NewClock(clockLimit),
		}
	}
	return s
}

// addPlayer seats playerID on the first free side, White first. A player may
// take both seats to play both sides from one client.
func (s *Session) addPlayer(playerID string) (model.Side, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, side := range []model.Side{model.White, model.Black} {
		if s.seats[side] == "" {
			s.seats[side] = playerID
			return side, nil
		}
	}
	return model.White, ErrGameFull
}

func (s *Session) isSeated(playerID string) bool {
	return s.seats[model.White] == playerID || s.seats[model.Black] == playerID
}

func (s *Session) hasFreeSeat() bool {
	return s.seats[model.White] == "" || s.seats[model.Black] == ""
}

// attach registers conn for playerID and sends it the current state. It
// holds mu so the first state cannot be overtaken by a move broadcast.
func (s *Session) attach(playerID string, conn Conn) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isSeated(playerID) && !s.hasFreeSeat() {
		return false, ErrNotAuthorized
	}
	if !s.observers.add(playerID, conn) {
		return false, nil
	}
	msg, err := stateMessage(s.snapshot())
	if err != nil {
		return true, err
	}
	return true, conn.WriteJSON(msg)
}

// move plays from-to for playerID, who must hold the seat of the side to move.
// Observers get the new state before mu is released, so they see states in
// move order.
func (s *Session) move(playerID, from, to string) (model.MoveOutcome, SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mover := s.game.SideToMove()
	if !s.isSeated(playerID) {
		return model.MoveOutcome{}, SessionState{}, ErrNotSeated
	}
	if s.seats[mover] != playerID {
		return model.MoveOutcome{}, SessionState{}, &model.MoveError{Err: model.ErrNotYourTurn, From: from, To: to}
	}

	out, err := s.game.AttemptMove(from, to)
	if err != nil {
		return model.MoveOutcome{}, SessionState{}, err
	}
	if s.clocks != nil {
		s.clocks[mover].Stop()
		if !out.Status.Over() {
			s.clocks[out.SideToMove].Start()
		}
	}
	s.lastMove = &out.Move
	state := s.snapshot()
	s.observers.broadcast(state)
	return out, state, nil
}

// legalTargets lists destinations for the piece on square.
func (s *Session) legalTargets(square string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.game.LegalMovesFrom(square)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(targets))
	for _, pos := range targets {
		out = append(out, pos.Notation())
	}
	return out, nil
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot copies everything a client needs; callers hold mu.
func (s *Session) snapshot() SessionState {
	grid := s.game.Render()
	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = string(row[:])
	}
	state := SessionState{
		ID:        s.ID,
		Board:     rows,
		FEN:       s.game.FEN(),
		ToMove:    s.game.SideToMove(),
		MoveCount: s.game.MoveCount(),
		Policy:    s.game.Policy().String(),
		Status:    s.game.Status(),
		IsCheck:   s.game.InCheck(),
		History:   s.game.History(),
		LastMove:  s.lastMove,
	}
	state.Players.White = s.seat(model.White)
	state.Players.Black = s.seat(model.Black)
	return state
}

func (s *Session) seat(side model.Side) Seat {
	seat := Seat{PlayerID: s.seats[side], Color: side.String()}
	if s.clocks != nil {
		seat.TimeLeft = s.clocks[side].TimeLeft().Milliseconds()
	}
	return seat
}
