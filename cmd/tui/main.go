package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/pterodash/internal/audio"
	"github.com/tomz197/pterodash/internal/config"
	"github.com/tomz197/pterodash/internal/diag"
	lconfig "github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
	"github.com/tomz197/pterodash/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pterodash: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}

	logger, closeLog, err := diag.FileFromEnv()
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameCfg := lconfig.GameConfig()
	gs := server.NewServer(server.Options{Game: gameCfg, Logger: logger})
	go gs.Run(ctx)

	opts := tui.Options{Username: os.Getenv("USER"), Logger: logger, Game: gameCfg}
	if config.GetEnvBool("PTERO_AUDIO", false) {
		sounds := audio.NewSoundManager(config.GetEnvFloat("PTERO_VOLUME", 1))
		if err := sounds.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer sounds.Cleanup()
			opts.Sounds = sounds
		}
	}

	return tui.New(screen, gs, opts).Run(ctx)
}
