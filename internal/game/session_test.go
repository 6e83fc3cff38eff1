package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/pterodash/internal/control"
)

const frame = 16 * time.Millisecond

type recordingHUD struct {
	scores   []int
	gameOver []bool
}

func (h *recordingHUD) SetScore(score int) { h.scores = append(h.scores, score) }
func (h *recordingHUD) SetGameOverVisible(visible bool) { h.gameOver = append(h.gameOver, visible) }

type recordingDiag struct {
	msgs []string
}

func (d *recordingDiag) Debug(msg interface{}, _ ...interface{}) {
	d.msgs = append(d.msgs, msg.(string))
}

func newTestSession(t *testing.T, cfg Config) (*Session, *ManualClock, *recordingHUD) {
	t.Helper()
	clock := NewManualClock(frame)
	hud := &recordingHUD{}
	s := NewSession(cfg, Options{
		Clock: clock,
		HUD:   hud,
		Rand:  rand.New(rand.NewSource(1)),
	})
	s.Resize(900, 600)
	return s, clock, hud
}

func TestScoreAfterOneSecond(t *testing.T) {
	s, _, hud := newTestSession(t, DefaultConfig())

	for i := 0; i < 62; i++ {
		s.Frame()
	}
	if s.Score() != 0 {
		t.Fatalf("score after 0.992s = %d, want 0", s.Score())
	}

	s.Frame() // elapsed 1.008s
	if s.Score() != 1 {
		t.Fatalf("score after 1.008s = %d, want 1", s.Score())
	}
	if s.State() != Running {
		t.Fatalf("state = %v, want running", s.State())
	}
	if len(hud.scores) != 1 || hud.scores[0] != 1 {
		t.Fatalf("HUD scores = %v, want [1]", hud.scores)
	}
}

func TestCollisionFreezesSimulation(t *testing.T) {
	s, _, hud := newTestSession(t, DefaultConfig())

	for i := 0; i < 10; i++ {
		s.Frame()
	}
	s.Field().Spawn(s.Actor().Position, s.Actor().Radius())

	s.Frame() // tick N
	if s.State() != GameOver {
		t.Fatalf("state after coincident rock = %v, want game over", s.State())
	}
	if len(hud.gameOver) != 1 || !hud.gameOver[0] {
		t.Fatalf("HUD game over calls = %v, want [true]", hud.gameOver)
	}

	frozen := s.Snapshot()
	for i := 0; i < 100; i++ {
		s.Frame()
		s.Step(frame, time.Hour)
	}
	after := s.Snapshot()
	if after.Frame != frozen.Frame || after.Actor != frozen.Actor || after.Score != frozen.Score {
		t.Fatalf("simulation advanced while game over: %+v -> %+v", frozen, after)
	}
	if len(after.Rocks) != len(frozen.Rocks) {
		t.Fatalf("rock count changed while game over: %d -> %d", len(frozen.Rocks), len(after.Rocks))
	}
	for i := range after.Rocks {
		if after.Rocks[i].Position != frozen.Rocks[i].Position {
			t.Fatalf("rock %d moved while game over", i)
		}
	}
}

func TestPointerDownRestartsAfterGameOver(t *testing.T) {
	s, clock, hud := newTestSession(t, DefaultConfig())

	s.HandlePointer(control.Down(10, 10)) // up-left
	for i := 0; i < 130; i++ {
		s.Frame()
	}
	if s.Score() < 2 {
		t.Fatalf("score = %d, want at least 2 before the crash", s.Score())
	}
	s.Field().Spawn(s.Actor().Position, s.Actor().Radius())
	s.Frame()
	if s.State() != GameOver {
		t.Fatal("expected game over")
	}

	s.HandlePointer(control.Down(450, 300))

	if s.State() != Running {
		t.Fatalf("state = %v, want running", s.State())
	}
	if s.Score() != 0 {
		t.Fatalf("score = %d, want 0", s.Score())
	}
	if s.Actor().Position != s.Config().Actor.Spawn {
		t.Fatalf("actor at %v, want spawn point", s.Actor().Position)
	}
	if n := len(s.Field().Rocks()); n != 0 {
		t.Fatalf("%d rocks after restart, want 0", n)
	}
	if !s.Intent().IsZero() {
		t.Fatalf("intent after restart = %+v, want cleared", s.Intent())
	}
	if clock.Resets() != 1 || clock.Elapsed() != 0 {
		t.Fatalf("clock resets=%d elapsed=%v, want 1 and 0", clock.Resets(), clock.Elapsed())
	}
	if got := hud.gameOver[len(hud.gameOver)-1]; got {
		t.Fatal("game-over banner still visible")
	}
	if got := hud.scores[len(hud.scores)-1]; got != 0 {
		t.Fatalf("last HUD score = %d, want 0", got)
	}

	// Scoring restarts from zero: one more second earns exactly one point.
	for i := 0; i < 63; i++ {
		s.Frame()
	}
	if s.Score() != 1 {
		t.Fatalf("score one second after restart = %d, want 1", s.Score())
	}
}

func TestPointerSetsIntent(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())

	s.HandlePointer(control.Down(900.0/6, 600.0/6))
	want := control.Intent{Up: true, Left: true}
	if s.Intent() != want {
		t.Fatalf("intent = %+v, want %+v", s.Intent(), want)
	}

	s.HandlePointer(control.Move(899, 599))
	if s.Intent() != (control.Intent{Down: true, Right: true}) {
		t.Fatalf("intent after move = %+v, want down-right", s.Intent())
	}

	s.HandlePointer(control.PointerEvent{Kind: control.PointerMove})
	if s.Intent() != (control.Intent{Down: true, Right: true}) {
		t.Fatalf("empty touch list changed intent to %+v", s.Intent())
	}

	s.HandlePointer(control.Up())
	if !s.Intent().IsZero() {
		t.Fatalf("intent after release = %+v, want cleared", s.Intent())
	}
}

func TestPressWithoutPointsKeepsIntent(t *testing.T) {
	s, _, hud := newTestSession(t, DefaultConfig())
	s.HandlePointer(control.Down(150, 100))
	before := s.Intent()
	s.Frame()
	score, frames := s.Score(), len(hud.gameOver)

	s.HandlePointer(control.PointerEvent{Kind: control.PointerDown})

	if s.Intent() != before {
		t.Fatalf("intent = %+v, want %+v", s.Intent(), before)
	}
	if s.State() != Running || s.Score() != score || len(hud.gameOver) != frames {
		t.Fatal("press without points restarted a running session")
	}
}

func TestPointerIgnoredWithoutViewport(t *testing.T) {
	s := NewSession(DefaultConfig(), Options{Clock: NewManualClock(frame)})

	s.HandlePointer(control.Down(10, 10))
	s.HandlePointer(control.Move(500, 500))
	if !s.Intent().IsZero() {
		t.Fatalf("intent without viewport = %+v, want none", s.Intent())
	}

	s.Resize(900, 600)
	s.HandlePointer(control.Move(10, 10))
	if s.Intent() != (control.Intent{Up: true, Left: true}) {
		t.Fatalf("intent after resize = %+v, want up-left", s.Intent())
	}
}

func TestPointerUsesContainerOffset(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())
	s.SetViewport(control.Viewport{OffsetX: 100, OffsetY: 50, Width: 300, Height: 300})

	s.HandlePointer(control.Down(150, 100))
	if s.Intent() != (control.Intent{Up: true, Left: true}) {
		t.Fatalf("intent = %+v, want up-left", s.Intent())
	}

	s.Resize(600, 600)
	if v := s.Viewport(); v.OffsetX != 100 || v.Width != 600 {
		t.Fatalf("Resize lost the offset: %+v", v)
	}
}

func TestActorFollowsIntent(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())
	start := s.Actor().Position

	s.HandlePointer(control.Down(899, 300)) // right
	s.Frame()
	if s.Actor().Position.X() <= start.X() || s.Actor().Position.Y() != start.Y() {
		t.Fatalf("actor did not move right: %v -> %v", start, s.Actor().Position)
	}
}

func TestScoreIsMonotonicWhileRunning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.SpawnInterval = time.Hour // keep the sky clear
	s, _, _ := newTestSession(t, cfg)

	last := 0
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		s.HandlePointer(control.Move(rng.Float64()*900, rng.Float64()*600))
		s.Frame()
		if s.Score() < last {
			t.Fatalf("score decreased from %d to %d", last, s.Score())
		}
		last = s.Score()
	}
	if s.State() != Running {
		t.Fatal("game ended with no rocks")
	}
	if last == 0 {
		t.Fatal("score never increased")
	}
}

func TestScoreDriftAndCarry(t *testing.T) {
	// 30ms frames never land on whole seconds. The default marker snaps to
	// the awarding frame's elapsed time and loses the overshoot; carry mode
	// keeps it.
	run := func(carry bool) int {
		cfg := DefaultConfig()
		cfg.Field.SpawnInterval = time.Hour
		cfg.ScoreCarry = carry
		s := NewSession(cfg, Options{Clock: NewManualClock(30 * time.Millisecond)})
		for i := 0; i < 1000; i++ { // 30s
			s.Frame()
		}
		return s.Score()
	}

	lossy, carried := run(false), run(true)
	if carried != 30 {
		t.Fatalf("carry mode score after 30s = %d, want 30", carried)
	}
	if lossy >= carried {
		t.Fatalf("lossy score %d should lag carry score %d", lossy, carried)
	}
}

func TestStepIsDrivenByArguments(t *testing.T) {
	s, clock, _ := newTestSession(t, DefaultConfig())
	s.Step(500*time.Millisecond, 500*time.Millisecond)
	s.Step(500*time.Millisecond, time.Second)
	if s.Score() != 1 {
		t.Fatalf("score = %d, want 1", s.Score())
	}
	if clock.Elapsed() != 0 {
		t.Fatal("Step must not read the clock")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultConfig())
	s.Field().Spawn(mgl64.Vec3{0, 0, -30}, 0.5)
	snap := s.Snapshot()

	snap.Rocks[0].Position = mgl64.Vec3{9, 9, 9}
	if s.Field().Rocks()[0].Position == snap.Rocks[0].Position {
		t.Fatal("snapshot shares rock storage with the session")
	}
	if snap.IsGameOver() {
		t.Fatal("new session snapshot reports game over")
	}
}

func TestDiagnosticsReceivesTraces(t *testing.T) {
	d := &recordingDiag{}
	s := NewSession(DefaultConfig(), Options{Clock: NewManualClock(frame), Diagnostics: d})
	s.Resize(300, 300)
	s.HandlePointer(control.Down(10, 10))
	s.Field().Spawn(s.Actor().Position, 1)
	s.Frame()
	s.HandlePointer(control.Down(10, 10))

	want := map[string]bool{"pointer": false, "game over": false, "restart": false}
	for _, m := range d.msgs {
		if _, ok := want[m]; ok {
			want[m] = true
		}
	}
	for m, seen := range want {
		if !seen {
			t.Errorf("diagnostic %q not emitted (got %v)", m, d.msgs)
		}
	}
}

func TestManualClockAdvance(t *testing.T) {
	c := NewManualClock(0)
	c.Advance(250 * time.Millisecond)
	delta, elapsed := c.Tick()
	if delta != 250*time.Millisecond || elapsed != 250*time.Millisecond {
		t.Fatalf("Tick = %v, %v", delta, elapsed)
	}
	if delta, _ := c.Tick(); delta != 0 {
		t.Fatalf("second Tick delta = %v, want 0", delta)
	}
}

func TestSystemClockUsesInjectedNow(t *testing.T) {
	now := time.Unix(100, 0)
	c := &SystemClock{now: func() time.Time { return now }}
	c.Reset()
	now = now.Add(40 * time.Millisecond)
	delta, elapsed := c.Tick()
	if delta != 40*time.Millisecond || elapsed != 40*time.Millisecond {
		t.Fatalf("Tick = %v, %v", delta, elapsed)
	}
	now = now.Add(10 * time.Millisecond)
	delta, elapsed = c.Tick()
	if delta != 10*time.Millisecond || elapsed != 50*time.Millisecond {
		t.Fatalf("Tick = %v, %v", delta, elapsed)
	}
}
