// Package tui plays the game on a tcell screen with native mouse support.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/diag"
	"github.com/tomz197/pterodash/internal/draw"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/loop/client"
	"github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
	"github.com/tomz197/pterodash/internal/object"
	"github.com/tomz197/pterodash/internal/scene"
)

// keyHold is how long a key press keeps steering; terminals report no
// key releases.
const keyHold = 150 * time.Millisecond

// Options configures a Game.
type Options struct {
	Username string
	Sounds   client.Sounds
	Logger   *log.Logger
	Now      func() time.Time
	Game     game.Config // Must match the server's; zero means defaults
}

// Game drives one session on a tcell screen.
type Game struct {
	screen   tcell.Screen
	server   server.GameServer
	handle   *server.ClientHandle
	canvas   *draw.Canvas
	renderer *scene.Renderer
	sounds   client.Sounds
	log      *log.Logger
	now      func() time.Time

	viewport    control.Viewport
	pointerDown bool
	keyIntent   control.Intent
	keyUntil    time.Time

	score     int
	gameOver  bool
	overSince time.Time
	running   bool
}

// New registers a client on gs and prepares the screen, which must already
// be initialised.
func New(screen tcell.Screen, gs server.GameServer, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = diag.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Game == (game.Config{}) {
		opts.Game = game.DefaultConfig()
	}
	handle := gs.RegisterClient(opts.Username)
	g := &Game{
		screen:   screen,
		server:   gs,
		handle:   handle,
		canvas:   draw.NewScaledCanvas(1, 1, config.ViewWidth, config.ViewHeight),
		renderer: scene.NewRenderer(config.ViewWidth, config.ViewHeight, opts.Game.Field.SpawnDistance),
		sounds:   opts.Sounds,
		log:      opts.Logger.With("client", handle.ID),
		now:      opts.Now,
		running:  true,
	}
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()
	g.resize()
	return g
}

// Run polls screen events and redraws at the client frame rate until the
// player quits, the server ends the session or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer g.server.UnregisterClient(g.handle.ID)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go g.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for g.running {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.HandleEvent(ev)
		case <-ticker.C:
			g.Update()
			g.Draw()
		}
	}
	return nil
}

// Running reports whether the game loop should continue.
func (g *Game) Running() bool {
	return g.running
}

// HandleEvent applies one tcell event.
func (g *Game) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.resize()
	case *tcell.EventKey:
		g.handleKey(ev)
	case *tcell.EventMouse:
		g.handleMouse(ev)
	}
}

func (g *Game) handleKey(ev *tcell.EventKey) {
	var want control.Intent
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyEnter:
		g.restart()
		return
	case tcell.KeyUp:
		want.Up = true
	case tcell.KeyDown:
		want.Down = true
	case tcell.KeyLeft:
		want.Left = true
	case tcell.KeyRight:
		want.Right = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
			return
		case ' ':
			g.restart()
			return
		case 'w', 'k':
			want.Up = true
		case 's', 'j':
			want.Down = true
		case 'a', 'h':
			want.Left = true
		case 'd', 'l':
			want.Right = true
		default:
			return
		}
	default:
		return
	}

	if g.pointerDown {
		return
	}
	g.keyUntil = g.now().Add(keyHold)
	if want == g.keyIntent {
		return
	}
	g.keyIntent = want
	p := g.viewport.ZoneCenter(want)
	g.server.SendPointer(g.handle.ID, control.Move(p.X, p.Y))
}

func (g *Game) restart() {
	if g.gameOver {
		g.server.Restart(g.handle.ID)
	}
}

// handleMouse forwards left-button presses, drags and releases. Cells are
// reported at their centre.
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := float64(cx)+0.5, float64(cy)+0.5
	held := ev.Buttons()&tcell.Button1 != 0

	switch {
	case held && !g.pointerDown:
		g.pointerDown = true
		g.keyIntent = control.Intent{}
		g.server.SendPointer(g.handle.ID, control.Down(x, y))
	case held:
		g.server.SendPointer(g.handle.ID, control.Move(x, y))
	case g.pointerDown:
		g.pointerDown = false
		g.server.SendPointer(g.handle.ID, control.Up())
	}
}

// resize fits the canvas to the screen and reports the new play area.
func (g *Game) resize() {
	w, h := g.screen.Size()
	g.canvas.Resize(w, h)
	v := control.Viewport{Width: float64(w), Height: float64(h)}
	if v != g.viewport {
		g.viewport = v
		g.server.SetViewport(g.handle.ID, v)
	}
}

// Update releases expired key steering and drains server events.
func (g *Game) Update() {
	if !g.keyIntent.IsZero() && g.now().After(g.keyUntil) {
		g.keyIntent = control.Intent{}
		g.server.SendPointer(g.handle.ID, control.Up())
	}

	for {
		select {
		case ev, ok := <-g.handle.EventsCh:
			if !ok {
				g.running = false
				return
			}
			g.handleServerEvent(ev)
		default:
			return
		}
	}
}

func (g *Game) handleServerEvent(ev server.ClientEvent) {
	switch ev.Type {
	case server.EventScore:
		g.score = ev.Score
		if g.sounds != nil {
			g.sounds.PlayScore()
		}
	case server.EventGameOver:
		g.score = ev.Score
		g.gameOver = true
		g.overSince = g.now()
		g.keyIntent = control.Intent{}
		if g.sounds != nil {
			g.sounds.PlayCrash()
		}
	case server.EventRestart:
		g.score = 0
		g.gameOver = false
	case server.EventServerShutdown:
		g.log.Info("server shutting down")
		g.running = false
	}
}

// Draw blits the rendered scene and HUD to the screen.
func (g *Game) Draw() {
	g.screen.Clear()
	g.canvas.Clear()
	g.renderer.Draw(g.canvas, g.handle.Snapshot())

	w, h := g.screen.Size()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			top := g.canvas.At(col, row*2)
			bottom := g.canvas.At(col, row*2+1)
			if top == draw.ColorNone && bottom == draw.ColorNone {
				continue
			}
			ch, style := cell(top, bottom)
			g.screen.SetContent(col, row, ch, nil, style)
		}
	}

	hudStyle := tcell.StyleDefault.Foreground(paletteColor(draw.ColorHUD))
	g.text(1, 0, hudStyle, fmt.Sprintf("Score: %d", g.score))
	g.text(1, h-1, hudStyle, "Arrows/WASD or mouse to fly   Q to quit")

	if g.gameOver {
		alert := tcell.StyleDefault.Foreground(paletteColor(draw.ColorAlert)).Bold(true)
		plain := tcell.StyleDefault.Foreground(paletteColor(draw.ColorWhite))
		since := g.now().Sub(g.overSince).Seconds()
		if object.ShouldRenderBlink(since+1/config.GameOverBlinkFrequency, config.GameOverBlinkFrequency) {
			g.centered(w, h/2-2, alert, "G A M E   O V E R")
		}
		g.centered(w, h/2, plain, fmt.Sprintf("Score: %d", g.score))
		g.centered(w, h/2+2, plain, "Click or press SPACE to restart")
	}

	g.screen.Show()
}

func (g *Game) text(x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (g *Game) centered(width, y int, style tcell.Style, s string) {
	g.text((width-len([]rune(s)))/2, y, style, s)
}

func paletteColor(c draw.Color) tcell.Color {
	if c == draw.ColorNone {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c.ANSI()))
}

// cell packs two vertical sub-pixels into one half-block character.
func cell(top, bottom draw.Color) (rune, tcell.Style) {
	switch {
	case top == draw.ColorNone:
		return draw.BlockLowerHalf, tcell.StyleDefault.Foreground(paletteColor(bottom))
	case top == bottom:
		return draw.BlockFull, tcell.StyleDefault.Foreground(paletteColor(top))
	default:
		return draw.BlockUpperHalf, tcell.StyleDefault.Foreground(paletteColor(top)).Background(paletteColor(bottom))
	}
}
