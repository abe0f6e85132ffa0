package model

import (
	"sort"
	"strings"
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"

	"github.com/benbeisheim/chess-backend/internal/testutil"
)

// TestReplayMatchesReferenceGame plays the same moves through corentings/chess
// and compares piece placement after every ply.
func TestReplayMatchesReferenceGame(t *testing.T) {
	moves := []string{
		"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5c6", "d7c6",
		"f3e5", "d8d4", "e5f3", "d4e4", "d1e2", "e4e2", "e1e2", "c8g4",
	}
	ours := NewGame(WithPolicy(PolicyStrict))
	ref := chess.NewGame()
	for _, uci := range moves {
		m := mustMove(t, uci)
		if _, err := ours.AttemptMove(m.From.Notation(), m.To.Notation()); err != nil {
			t.Fatalf("AttemptMove(%s): %v", uci, err)
		}
		refMove, err := chess.UCINotation{}.Decode(ref.Position(), uci)
		testutil.AssertNoError(t, err, "reference decode %s", uci)
		testutil.AssertNoError(t, ref.Move(refMove, nil), "reference move %s", uci)

		want := strings.Fields(ref.Position().String())
		got := strings.Fields(ours.FEN())
		testutil.AssertEqual(t, got[0], want[0], "placement after %s", uci)
		testutil.AssertEqual(t, got[1], want[1], "side to move after %s", uci)
	}
}

// TestLegalMovesMatchReferenceGenerator compares strict move generation with
// dragontoothmg on positions where castling, en passant and promotion cannot
// arise.
func TestLegalMovesMatchReferenceGenerator(t *testing.T) {
	for _, fen := range []string{
		InitialFEN,
		"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b - - 0 3",
		"k3r3/8/8/8/8/8/4R3/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/4q3/4K3 w - - 0 1",
		"4k3/8/3n4/8/2B5/8/3P4/4K3 b - - 0 1",
		"r3k3/8/8/3p4/2N1P3/8/8/4K2R w - - 0 1",
	} {
		t.Run(fen, func(t *testing.T) {
			g, err := ParseFEN(fen, WithPolicy(PolicyStrict))
			testutil.AssertNoError(t, err)
			var got []string
			for _, m := range g.LegalMoves() {
				got = append(got, m.String())
			}
			sort.Strings(got)

			board := dragontoothmg.ParseFen(fen)
			var want []string
			for _, m := range board.GenerateLegalMoves() {
				want = append(want, m.String())
			}
			sort.Strings(want)

			testutil.AssertEqual(t, got, want)
		})
	}
}
