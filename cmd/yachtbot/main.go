// Command yachtbot plays yacht dice headless: either an AI against AI match
// in-process, or one seat of an online room driven by the AI policy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/songowen/duelboard/internal/ai"
	"github.com/songowen/duelboard/internal/config"
	"github.com/songowen/duelboard/internal/logger"
)

func main() {
	var (
		mode      string
		level     string
		room      string
		nickname  string
		seed      int64
		rematches int
	)
	flag.StringVar(&mode, "mode", "local", "local (AI vs AI in-process) or online")
	flag.StringVar(&level, "level", "normal", "AI difficulty (easy, normal)")
	flag.StringVar(&room, "room", "", "room id or invite link to join (online; default: create a room)")
	flag.StringVar(&nickname, "nickname", "", "nickname to play under (online)")
	flag.Int64Var(&seed, "seed", 0, "random seed for the local match (0 = random)")
	flag.IntVar(&rematches, "rematches", 0, "rematches to vote for after the first match (online)")
	flag.Parse()

	difficulty, err := ai.ParseDifficulty(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	switch mode {
	case "local":
		if err := playLocal(os.Stdout, difficulty, seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "online":
		cfg, err := config.LoadClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if nickname != "" {
			cfg.Nickname = nickname
		}
		logger.Configure(cfg.LogLevel, cfg.LogFormat)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := playOnline(ctx, os.Stdout, cfg, difficulty, room, rematches); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		os.Exit(2)
	}
}
