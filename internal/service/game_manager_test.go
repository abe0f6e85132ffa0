package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/testutil"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	fail     bool
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(ws.Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) states(t *testing.T) []SessionState {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []SessionState
	for _, msg := range c.messages {
		if msg.Type != ws.MessageTypeGameState {
			continue
		}
		var state SessionState
		testutil.AssertNoError(t, json.Unmarshal(msg.Payload, &state))
		out = append(out, state)
	}
	return out
}

func newManagerWithGame(t *testing.T) *GameManager {
	t.Helper()
	gm := NewGameManager(model.PolicyExtended, 0)
	testutil.AssertNoError(t, gm.CreateGame("g1", ""))
	return gm
}

func TestCreateGame(t *testing.T) {
	gm := newManagerWithGame(t)
	testutil.AssertErrorIs(t, gm.CreateGame("g1", ""), ErrGameExists)
	testutil.AssertErrorIs(t, gm.CreateGame("g2", "not a fen"), model.ErrInvalidFEN)
	testutil.AssertNoError(t, gm.CreateGame("g3", "4k3/8/8/8/8/8/8/4K3 b - - 0 10"))
	testutil.AssertEqual(t, gm.GameCount(), 2)

	state, err := gm.GetGameState("g3")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.ToMove, model.Black)
	testutil.AssertEqual(t, state.MoveCount, 19)

	_, err = gm.GetGameState("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
}

func TestAddPlayerToGame(t *testing.T) {
	gm := newManagerWithGame(t)

	side, err := gm.AddPlayerToGame("g1", "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, side, model.White)

	side, err = gm.AddPlayerToGame("g1", "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, side, model.Black)

	_, err = gm.AddPlayerToGame("g1", "carol")
	testutil.AssertErrorIs(t, err, ErrGameFull)

	_, err = gm.AddPlayerToGame("missing", "carol")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)

	state, _ := gm.GetGameState("g1")
	testutil.AssertEqual(t, state.Players.White.PlayerID, "alice")
	testutil.AssertEqual(t, state.Players.Black.PlayerID, "bob")
}

func TestMakeMove(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "alice")
	gm.AddPlayerToGame("g1", "bob")

	_, err := gm.MakeMove("g1", "mallory", "e2", "e4")
	testutil.AssertErrorIs(t, err, ErrNotSeated)

	_, err = gm.MakeMove("g1", "bob", "e7", "e5")
	testutil.AssertErrorIs(t, err, model.ErrNotYourTurn)

	_, err = gm.MakeMove("g1", "alice", "e7", "e5")
	testutil.AssertErrorIs(t, err, model.ErrNotYourTurn)

	_, err = gm.MakeMove("g1", "alice", "b1", "b3")
	testutil.AssertErrorIs(t, err, model.ErrIllegalGeometry)

	out, err := gm.MakeMove("g1", "alice", "e2", "e4")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out.SideToMove, model.Black)

	state, _ := gm.GetGameState("g1")
	testutil.AssertEqual(t, state.Board[4], "....P...")
	testutil.AssertEqual(t, state.Board[6], "PPPP.PPP")
	testutil.AssertEqual(t, state.MoveCount, 1)
	testutil.AssertEqual(t, *state.LastMove, out.Move)
	testutil.AssertEqual(t, len(state.History), 1)
}

func TestHotSeat(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "solo")
	gm.AddPlayerToGame("g1", "solo")

	for _, m := range [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}} {
		_, err := gm.MakeMove("g1", "solo", m[0], m[1])
		testutil.AssertNoError(t, err, "%s-%s", m[0], m[1])
	}
}

func TestMakeMoveSerializesPerGame(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "solo")
	gm.AddPlayerToGame("g1", "solo")

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gm.MakeMove("g1", "solo", "e2", "e4"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, accepted, 1)
	state, _ := gm.GetGameState("g1")
	testutil.AssertEqual(t, state.MoveCount, 1)
}

func TestBroadcastAfterMove(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "alice")
	gm.AddPlayerToGame("g1", "bob")

	aliceConn, bobConn := &fakeConn{}, &fakeConn{}
	testutil.AssertNoError(t, gm.RegisterConnection("g1", "alice", aliceConn))
	testutil.AssertNoError(t, gm.RegisterConnection("g1", "bob", bobConn))

	_, err := gm.MakeMove("g1", "alice", "d2", "d4")
	testutil.AssertNoError(t, err)

	for name, conn := range map[string]*fakeConn{"alice": aliceConn, "bob": bobConn} {
		states := conn.states(t)
		if len(states) != 2 {
			t.Fatalf("%s received %d states; want 2", name, len(states))
		}
		testutil.AssertEqual(t, states[0].MoveCount, 0, name)
		testutil.AssertEqual(t, states[1].MoveCount, 1, name)
		testutil.AssertEqual(t, states[1].ToMove, model.Black, name)
	}
}

func TestBroadcastKeepsMoveOrder(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "solo")
	gm.AddPlayerToGame("g1", "solo")
	conn := &fakeConn{}
	testutil.AssertNoError(t, gm.RegisterConnection("g1", "solo", conn))

	// These knight hops stay legal in any order, so every goroutine
	// eventually gets its turn.
	moves := [][2]string{{"g1", "f3"}, {"g8", "f6"}, {"b1", "c3"}, {"b8", "c6"}}
	var wg sync.WaitGroup
	for _, m := range moves {
		wg.Add(1)
		go func(from, to string) {
			defer wg.Done()
			for {
				if _, err := gm.MakeMove("g1", "solo", from, to); err == nil || !errors.Is(err, model.ErrNotYourTurn) {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}(m[0], m[1])
	}
	wg.Wait()

	states := conn.states(t)
	for i, state := range states {
		testutil.AssertEqual(t, state.MoveCount, i, "state %d", i)
	}
	testutil.AssertEqual(t, len(states), len(moves)+1)
}

func TestRegisterConnection(t *testing.T) {
	gm := newManagerWithGame(t)
	gm.AddPlayerToGame("g1", "alice")
	gm.AddPlayerToGame("g1", "bob")

	t.Run("stranger refused once seats are taken", func(t *testing.T) {
		err := gm.RegisterConnection("g1", "eve", &fakeConn{})
		testutil.AssertErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("duplicate connection closed", func(t *testing.T) {
		first, second := &fakeConn{}, &fakeConn{}
		testutil.AssertNoError(t, gm.RegisterConnection("g1", "alice", first))
		testutil.AssertNoError(t, gm.RegisterConnection("g1", "alice", second))
		testutil.AssertTrue(t, second.closed, "second connection closed")
		testutil.AssertFalse(t, first.closed, "first connection kept")

		gm.UnregisterConnection("g1", "alice", second)
		session, _ := gm.GetSession("g1")
		testutil.AssertEqual(t, session.observers.Len(), 1, "stale unregister ignored")
		gm.UnregisterConnection("g1", "alice", first)
		testutil.AssertEqual(t, session.observers.Len(), 0)
	})

	t.Run("failed writes drop the observer", func(t *testing.T) {
		broken := &fakeConn{}
		testutil.AssertNoError(t, gm.RegisterConnection("g1", "bob", broken))
		broken.fail = true
		_, err := gm.MakeMove("g1", "alice", "e2", "e4")
		testutil.AssertNoError(t, err)
		session, _ := gm.GetSession("g1")
		testutil.AssertEqual(t, session.observers.Len(), 0)
	})
}

func TestLegalTargets(t *testing.T) {
	gm := newManagerWithGame(t)
	targets, err := gm.LegalTargets("g1", "b1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, targets, []string{"c3", "a3"})

	_, err = gm.LegalTargets("g1", "x0")
	testutil.AssertErrorIs(t, err, model.ErrMalformedNotation)
}

func TestSessionClocks(t *testing.T) {
	gm := NewGameManager(model.PolicyExtended, 5*time.Minute)
	testutil.AssertNoError(t, gm.CreateGame("timed", ""))
	gm.AddPlayerToGame("timed", "solo")
	gm.AddPlayerToGame("timed", "solo")

	session, _ := gm.GetSession("timed")
	testutil.AssertFalse(t, session.clocks[model.White].Running(), "white clock idle before first move")

	_, err := gm.MakeMove("timed", "solo", "e2", "e4")
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, session.clocks[model.White].Running(), "white clock stopped")
	testutil.AssertTrue(t, session.clocks[model.Black].Running(), "black clock running")

	state := session.State()
	testutil.AssertTrue(t, state.Players.White.TimeLeft <= (5*time.Minute).Milliseconds(), "white time left")
	testutil.AssertTrue(t, state.Players.Black.TimeLeft > 0, "black time left")
}
