package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/pterodash/internal/config"
	"github.com/tomz197/pterodash/internal/diag"
	lconfig "github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
	"github.com/tomz197/pterodash/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	if err := config.Load(); err != nil {
		diag.FromEnv().Fatal("config", "err", err)
	}
	logger := diag.FromEnv()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	allowAnyOrigin := config.GetEnvBool("WEB_ALLOW_ANY_ORIGIN", false)

	ctx, cancelServer := context.WithCancel(context.Background())
	gameCfg := lconfig.GameConfig()
	gs := server.NewServer(server.Options{Game: gameCfg, Logger: logger})
	go gs.Run(ctx)
	logger.Info("game server started")

	wsOpts := web.Options{Logger: logger, Game: gameCfg}
	if allowAnyOrigin {
		wsOpts.CheckOrigin = func(*http.Request) bool { return true }
	}

	mux := http.NewServeMux()
	mux.Handle("/", web.PageHandler())
	mux.Handle("/ws", web.NewHandler(gs, wsOpts))

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Tell browsers first, then stop the game loop
	gs.Shutdown(5 * time.Second)
	cancelServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
