// Package loop runs a local game: an in-process server plus one terminal
// client.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/loop/client"
	"github.com/tomz197/pterodash/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Server server.Options
	Client client.ClientOptions
}

// Run starts the server loop, plays one client on r/w and returns when the
// player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gs := server.NewServer(opts.Server)
	go gs.Run(ctx)

	if opts.Client.Game == (game.Config{}) {
		opts.Client.Game = opts.Server.Game
	}

	c := client.NewClient(gs, r, w, opts.Client)
	return c.Run(ctx)
}
