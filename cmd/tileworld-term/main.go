// Command tileworld-term plays a level in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"tileworld/internal/sims/tileworld"
	"tileworld/internal/term"
)

func main() {
	cfg := tileworld.DefaultConfig()
	flag.StringVar(&cfg.Level, "level", cfg.Level, "level file")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for generated levels (0 uses the level's own)")
	flag.BoolVar(&cfg.Collisions, "collisions", cfg.Collisions, "enable the colliding phase")
	flag.IntVar(&cfg.TPS, "tps", cfg.TPS, "frames per second")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})))

	game, err := tileworld.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load level: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = term.New(screen, game, cfg.TPS, slog.Default()).Run(ctx)
	stop()
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %s after %d rounds\n", game.Level().Name, game.Outcome(), game.World().Rounds())
}
