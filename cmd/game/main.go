package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/pterodash/internal/audio"
	"github.com/tomz197/pterodash/internal/config"
	"github.com/tomz197/pterodash/internal/diag"
	"github.com/tomz197/pterodash/internal/loop"
	"github.com/tomz197/pterodash/internal/loop/client"
	lconfig "github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := diag.FileFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	opts := loop.Options{
		Server: server.Options{Game: lconfig.GameConfig(), Logger: logger},
		Client: client.ClientOptions{Username: os.Getenv("USER"), Logger: logger},
	}

	if config.GetEnvBool("PTERO_AUDIO", false) {
		sounds := audio.NewSoundManager(config.GetEnvFloat("PTERO_VOLUME", 1))
		if err := sounds.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer sounds.Cleanup()
			opts.Client.Sounds = sounds
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(ctx, reader, os.Stdout, opts); err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
