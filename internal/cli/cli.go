// Package cli runs a game in the terminal: it prints the board, reads a
// source and a destination square, and plays the move.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/benbeisheim/chess-backend/internal/model"
)

var quitWords = []string{"exit", "quit", "q"}

type CLI struct {
	game *model.Game
	in   *bufio.Scanner
	out  io.Writer
}

func New(game *model.Game, in io.Reader, out io.Writer) *CLI {
	return &CLI{game: game, in: bufio.NewScanner(in), out: out}
}

// Run loops until the input ends, the player quits, or the game reaches a
// terminal status.
func (c *CLI) Run() error {
	for {
		fmt.Fprint(c.out, FormatBoard(c.game.Render()))
		if status := c.game.Status(); status.Over() {
			c.printResult(status)
			return nil
		}

		turn := title(c.game.SideToMove().String()) + " to move"
		if c.game.InCheck() {
			turn += " (check)"
		}
		fmt.Fprintln(c.out, turn)

		from, ok := c.prompt("Enter the square of the piece to move (e.g. e2): ")
		if !ok {
			return c.in.Err()
		}
		switch {
		case slices.Contains(quitWords, from):
			return nil
		case from == "fen":
			fmt.Fprintln(c.out, c.game.FEN())
			continue
		case from == "moves":
			c.printMoves()
			continue
		case from == "help":
			fmt.Fprintln(c.out, "Commands: a square such as e2, fen, moves, help, exit")
			continue
		}
		if _, err := model.ParsePosition(from); err != nil {
			fmt.Fprintln(c.out, "Invalid input. Try again.")
			continue
		}

		to, ok := c.prompt("Enter the target square (e.g. e4): ")
		if !ok {
			return c.in.Err()
		}
		if slices.Contains(quitWords, to) {
			return nil
		}

		out, err := c.game.AttemptMove(from, to)
		if err != nil {
			fmt.Fprintln(c.out, describe(err))
			continue
		}
		fmt.Fprintf(c.out, "%d. %s\n", out.MoveCount, out.Notation)
	}
}

func (c *CLI) prompt(text string) (string, bool) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(c.in.Text())), true
}

func (c *CLI) printMoves() {
	moves := c.game.LegalMoves()
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.String())
	}
	fmt.Fprintf(c.out, "%d moves: %s\n", len(names), strings.Join(names, " "))
}

func (c *CLI) printResult(status model.Status) {
	switch status {
	case model.StatusCheckmate:
		winner := c.game.SideToMove().Opponent()
		fmt.Fprintf(c.out, "Checkmate. %s wins.\n", title(winner.String()))
	case model.StatusStalemate:
		fmt.Fprintln(c.out, "Stalemate. The game is drawn.")
	}
}

// describe turns a rejected move into the message shown to the player.
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrMalformedNotation), errors.Is(err, model.ErrOutOfRange):
		return "Invalid input. Try again."
	case errors.Is(err, model.ErrNoPieceAtSource):
		return "No piece at the starting position."
	case errors.Is(err, model.ErrNotYourTurn):
		return "That piece belongs to the other side."
	case errors.Is(err, model.ErrSelfCapture):
		return "Cannot capture your own piece."
	case errors.Is(err, model.ErrKingInCheck):
		return "That move leaves your king in check."
	case errors.Is(err, model.ErrIllegalMove):
		return "Invalid move for this piece."
	case errors.Is(err, model.ErrGameOver):
		return "The game is over."
	}
	return err.Error()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
