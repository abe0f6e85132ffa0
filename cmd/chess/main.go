package main

import (
	"flag"
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/cli"
	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/model"
)

func main() {
	fs := flag.NewFlagSet("chess", flag.ExitOnError)
	fen := fs.String("fen", "", "Start from this FEN position instead of the standard setup")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	game := model.NewGame(model.WithPolicy(cfg.RulesPolicy()))
	if *fen != "" {
		if game, err = model.ParseFEN(*fen, model.WithPolicy(cfg.RulesPolicy())); err != nil {
			log.Fatalf("fen: %v", err)
		}
	}
	log.Debugf("playing with %s rules", cfg.RulesPolicy())

	if err := cli.New(game, os.Stdin, os.Stdout).Run(); err != nil {
		log.Fatalf("read input: %v", err)
	}
}
