package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/draw"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/loop/server"
)

type recordingServer struct {
	*server.Server
	pointers  []control.PointerEvent
	viewports []control.Viewport
	restarts  int
}

func (s *recordingServer) SendPointer(id int, ev control.PointerEvent) {
	s.pointers = append(s.pointers, ev)
	s.Server.SendPointer(id, ev)
}

func (s *recordingServer) SetViewport(id int, v control.Viewport) {
	s.viewports = append(s.viewports, v)
	s.Server.SetViewport(id, v)
}

func (s *recordingServer) Restart(id int) {
	s.restarts++
	s.Server.Restart(id)
}

func newTestGame(t *testing.T) (*Game, *recordingServer, tcell.SimulationScreen, *time.Time) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(90, 30)

	now := time.Unix(1000, 0)
	rs := &recordingServer{Server: server.NewServer(server.Options{})}
	g := New(screen, rs, Options{Username: "tester", Now: func() time.Time { return now }})
	return g, rs, screen, &now
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%w == 0 {
			b.WriteByte('\n')
		}
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestNewReportsViewport(t *testing.T) {
	_, rs, _, _ := newTestGame(t)
	if len(rs.viewports) != 1 || rs.viewports[0] != (control.Viewport{Width: 90, Height: 30}) {
		t.Fatalf("viewports = %+v", rs.viewports)
	}
}

func TestMouseDragAndRelease(t *testing.T) {
	g, rs, _, _ := newTestGame(t)

	g.HandleEvent(tcell.NewEventMouse(10, 5, tcell.Button1, 0))
	g.HandleEvent(tcell.NewEventMouse(70, 25, tcell.Button1, 0))
	g.HandleEvent(tcell.NewEventMouse(70, 25, tcell.ButtonNone, 0))
	g.HandleEvent(tcell.NewEventMouse(1, 1, tcell.ButtonNone, 0))

	if len(rs.pointers) != 3 {
		t.Fatalf("pointers = %+v", rs.pointers)
	}
	kinds := []control.PointerKind{control.PointerDown, control.PointerMove, control.PointerUp}
	for i, k := range kinds {
		if rs.pointers[i].Kind != k {
			t.Fatalf("event %d = %v, want %v", i, rs.pointers[i].Kind, k)
		}
	}
	p, _ := rs.pointers[0].First()
	if p != (control.Point{X: 10.5, Y: 5.5}) {
		t.Fatalf("press at %+v", p)
	}
	if g.viewport.Map(p) != (control.Intent{Up: true, Left: true}) {
		t.Fatal("press should steer up-left")
	}
}

func TestKeySteeringExpires(t *testing.T) {
	g, rs, _, now := newTestGame(t)

	g.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if len(rs.pointers) != 1 || rs.pointers[0].Kind != control.PointerMove {
		t.Fatalf("pointers = %+v", rs.pointers)
	}
	p, _ := rs.pointers[0].First()
	if g.viewport.Map(p) != (control.Intent{Left: true}) {
		t.Fatalf("key steered to %s", control.Zone(g.viewport.Map(p)))
	}

	*now = now.Add(keyHold / 2)
	g.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)) // auto-repeat
	g.Update()
	if len(rs.pointers) != 1 {
		t.Fatal("repeat sent another event or released early")
	}

	*now = now.Add(keyHold + time.Millisecond)
	g.Update()
	if last := rs.pointers[len(rs.pointers)-1]; last.Kind != control.PointerUp {
		t.Fatalf("expired key sent %+v, want up", last)
	}
}

func TestQuitAndRestartKeys(t *testing.T) {
	g, rs, _, _ := newTestGame(t)

	g.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if rs.restarts != 0 {
		t.Fatal("space restarted a running game")
	}
	g.handleServerEvent(server.ClientEvent{Type: server.EventGameOver, Score: 2})
	g.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if rs.restarts != 1 {
		t.Fatalf("restarts = %d", rs.restarts)
	}

	g.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if g.Running() {
		t.Fatal("q did not quit")
	}
}

func TestDrawSceneAndBanner(t *testing.T) {
	g, _, screen, _ := newTestGame(t)

	g.Draw()
	text := screenText(screen)
	if !strings.Contains(text, "Score: 0") {
		t.Fatalf("HUD missing:\n%s", text)
	}
	mainc, _, _, _ := screen.GetContent(45, 15)
	if mainc != draw.BlockFull && mainc != draw.BlockUpperHalf && mainc != draw.BlockLowerHalf {
		t.Fatalf("centre cell = %q, want part of the actor", mainc)
	}

	g.handleServerEvent(server.ClientEvent{Type: server.EventGameOver, Score: 7})
	g.Draw()
	text = screenText(screen)
	for _, want := range []string{"G A M E   O V E R", "Score: 7", "Click or press SPACE to restart"} {
		if !strings.Contains(text, want) {
			t.Errorf("game over screen missing %q", want)
		}
	}
}

func TestServerClosingEndsGame(t *testing.T) {
	g, _, _, _ := newTestGame(t)
	g.handleServerEvent(server.ClientEvent{Type: server.EventServerShutdown})
	if g.Running() {
		t.Fatal("game kept running after shutdown")
	}
}

func TestRendererUsesSessionConfig(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)

	cfg := game.DefaultConfig()
	cfg.Field.SpawnDistance = 90
	g := New(screen, server.NewServer(server.Options{Game: cfg}), Options{Game: cfg})
	if g.renderer.Far() != 90 {
		t.Fatalf("shading depth = %v, want 90", g.renderer.Far())
	}
}
