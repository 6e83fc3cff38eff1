package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/diag"
	"github.com/tomz197/pterodash/internal/draw"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/input"
	"github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
	"github.com/tomz197/pterodash/internal/scene"
)

// Sounds plays feedback effects. *audio.SoundManager implements it.
type Sounds interface {
	PlayScore()
	PlayCrash()
}

type silent struct{}

func (silent) PlayScore() {}
func (silent) PlayCrash() {}

// Client handles rendering and input for a single terminal connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	renderer     *scene.Renderer
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	sounds       Sounds
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Sounds       Sounds      // Optional; nil plays nothing
	Logger       *log.Logger // Optional; nil discards
	Game         game.Config // Must match the server's; zero means defaults
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	sounds := opts.Sounds
	if sounds == nil {
		sounds = silent{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = diag.Nop()
	}
	if opts.Game == (game.Config{}) {
		opts.Game = game.DefaultConfig()
	}

	handle := gs.RegisterClient(opts.Username)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		canvas:       canvas,
		renderer:     scene.NewRenderer(config.ViewWidth, config.ViewHeight, opts.Game.Field.SpawnDistance),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		sounds:       sounds,
		log:          logger.With("client", handle.ID),
	}
}

// Run starts the client loop. Blocks until the client disconnects, the server
// stops or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	// Unregister from server however the loop ends
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running && ctx.Err() == nil {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Advance client-side timers
		c.updateTimers()

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and forwards it to the server.
func (c *Client) processInput() {
	c.handleInput(input.ReadInput(c.inputStream), time.Now())
}

// handleInput tracks activity and translates keys and mouse reports into
// pointer events.
func (c *Client) handleInput(in input.Input, now time.Time) {
	c.state.Input = in

	if len(in.Pressed) > 0 || len(in.Mouse) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if now.Sub(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.log.Info("disconnecting inactive client")
		c.state.Running = false
	} else if now.Sub(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
		return
	}
	if c.state.Shutdown {
		return
	}

	if c.state.GameOver && (in.Space || in.Enter) {
		c.server.Restart(c.handle.ID)
	}

	for _, m := range in.Mouse {
		c.handleMouse(m)
	}
	c.handleKeys(in)
}

// handleMouse forwards left-button presses, drags and releases. Terminal
// cells are 1-based; a cell is reported at its centre.
func (c *Client) handleMouse(m input.MouseEvent) {
	if m.Wheel {
		return
	}
	x, y := float64(m.X)-0.5, float64(m.Y)-0.5

	switch {
	case m.Release:
		if c.state.pointerDown {
			c.state.pointerDown = false
			c.server.SendPointer(c.handle.ID, control.Up())
		}
	case m.Motion:
		if c.state.pointerDown {
			c.server.SendPointer(c.handle.ID, control.Move(x, y))
		}
	case m.Press && m.Button == 0:
		c.state.pointerDown = true
		c.server.SendPointer(c.handle.ID, control.Down(x, y))
	}
}

// handleKeys steers with the keyboard by pointing at the centre of the
// matching third. Keys send moves, never presses, so they cannot restart a
// finished game by accident.
func (c *Client) handleKeys(in input.Input) {
	if c.state.pointerDown {
		return
	}

	var want control.Intent
	switch {
	case in.Up:
		want.Up = true
	case in.Down:
		want.Down = true
	}
	switch {
	case in.Left:
		want.Left = true
	case in.Right:
		want.Right = true
	}

	if want == c.state.keyIntent {
		return
	}
	c.state.keyIntent = want
	if want.IsZero() {
		c.server.SendPointer(c.handle.ID, control.Up())
		return
	}
	p := c.state.viewport.ZoneCenter(want)
	c.server.SendPointer(c.handle.ID, control.Move(p.X, p.Y))
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			c.handleEvent(event)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(event server.ClientEvent) {
	switch event.Type {
	case server.EventScore:
		c.state.Score = event.Score
		c.sounds.PlayScore()
	case server.EventGameOver:
		c.state.Score = event.Score
		c.state.GameOver = true
		c.state.sinceOver = 0
		c.state.keyIntent = control.Intent{}
		c.sounds.PlayCrash()
	case server.EventRestart:
		c.state.Score = 0
		c.state.GameOver = false
	case server.EventServerShutdown:
		c.state.Shutdown = true
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area, and reports the new play area to the server.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	v := control.Viewport{
		OffsetX: float64(offsetCol),
		OffsetY: float64(offsetRow),
		Width:   float64(renderWidth),
		Height:  float64(renderHeight),
	}
	if v != c.state.viewport {
		c.state.viewport = v
		c.server.SetViewport(c.handle.ID, v)
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateTimers advances the game-over blink and the shutdown countdown.
func (c *Client) updateTimers() {
	dt := c.state.delta.Seconds()
	if c.state.GameOver {
		c.state.sinceOver += dt
	}
	if c.state.Shutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}
