// Package game runs one pterodactyl session: input intent, actor, rock field,
// collision and the Running/GameOver state machine.
package game

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/object"
)

// Config holds the session tuning.
type Config struct {
	Actor  object.PterodactylConfig
	Field  object.RockFieldConfig
	Camera mgl64.Vec3

	// ScoreInterval is the survival time worth one point.
	ScoreInterval time.Duration
	// ScoreCarry advances the score marker by exactly ScoreInterval instead
	// of snapping it to the elapsed time of the awarding frame, so fractional
	// frame time is not dropped.
	ScoreCarry bool
	// Seed for the rock field. Zero seeds from the wall clock.
	Seed int64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Actor:         object.DefaultPterodactylConfig(),
		Field:         object.DefaultRockFieldConfig(),
		Camera:        object.Camera,
		ScoreInterval: time.Second,
	}
}

// Options are the session's collaborators. Nil fields get defaults.
type Options struct {
	Clock       Clock
	HUD         HUD
	Diagnostics Diagnostics
	Rand        *rand.Rand
}

// Session is one single-player game. It is not safe for concurrent use; the
// owner calls Frame (or Step) once per frame and routes input through
// HandlePointer and Resize on the same goroutine.
type Session struct {
	cfg   Config
	clock Clock
	hud   HUD
	diag  Diagnostics

	actor *object.Pterodactyl
	field *object.RockField

	viewport control.Viewport
	intent   control.Intent

	state           State
	score           int
	lastScoreUpdate time.Duration
	elapsed         time.Duration
	frame           uint64
}

// NewSession creates a session in the Running state.
func NewSession(cfg Config, opts Options) *Session {
	if cfg.ScoreInterval <= 0 {
		cfg.ScoreInterval = time.Second
	}
	if opts.Clock == nil {
		opts.Clock = NewSystemClock()
	}
	if opts.HUD == nil {
		opts.HUD = nopHUD{}
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = nopDiagnostics{}
	}
	if opts.Rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	}

	return &Session{
		cfg:   cfg,
		clock: opts.Clock,
		hud:   opts.HUD,
		diag:  opts.Diagnostics,
		actor: object.NewPterodactyl(cfg.Actor),
		field: object.NewRockField(cfg.Field, opts.Rand),
		state: Running,
	}
}

// Frame reads the clock and advances the simulation by one step.
// While GameOver the clock is not read.
func (s *Session) Frame() {
	if s.state != Running {
		return
	}
	delta, elapsed := s.clock.Tick()
	s.Step(delta, elapsed)
}

// Step advances the simulation by delta, with elapsed being the time since
// the session (re)started. It does nothing while GameOver.
func (s *Session) Step(delta, elapsed time.Duration) {
	if s.state != Running {
		return
	}
	s.frame++
	s.elapsed = elapsed

	s.updateScore(elapsed)
	s.actor.Update(s.intent, delta)
	s.actor.AnimateWings(elapsed)

	res := s.field.Update(delta, s.cfg.Camera)
	if res.Spawned > 0 || res.Recycled > 0 {
		s.diag.Debug("rock field", "spawned", res.Spawned, "recycled", res.Recycled, "active", s.field.Len())
	}

	if s.actor.CheckCollision(s.field.Rocks()) {
		s.gameOver()
	}
}

func (s *Session) updateScore(elapsed time.Duration) {
	if elapsed-s.lastScoreUpdate < s.cfg.ScoreInterval {
		return
	}
	s.score++
	s.hud.SetScore(s.score)
	if s.cfg.ScoreCarry {
		s.lastScoreUpdate += s.cfg.ScoreInterval
	} else {
		s.lastScoreUpdate = elapsed
	}
}

func (s *Session) gameOver() {
	s.state = GameOver
	s.hud.SetGameOverVisible(true)
	s.diag.Debug("game over", "score", s.score, "elapsed", s.elapsed)
}

// HandlePointer applies a mouse or touch event. A pointer-down while
// GameOver restarts the session instead of steering.
func (s *Session) HandlePointer(ev control.PointerEvent) {
	switch ev.Kind {
	case control.PointerDown:
		if s.state == GameOver {
			s.Restart()
			return
		}
		s.steer(ev)
	case control.PointerMove:
		s.steer(ev)
	case control.PointerUp:
		s.intent.Clear()
	}
}

// steer maps the first point to an intent. Without container geometry
// every point would land in a corner zone, so input waits for a viewport.
func (s *Session) steer(ev control.PointerEvent) {
	p, ok := ev.First()
	if !ok {
		return
	}
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		s.diag.Debug("pointer before viewport", "kind", ev.Kind)
		return
	}
	s.intent = s.viewport.Map(p)
	rel := s.viewport.Relative(p)
	s.diag.Debug("pointer",
		"kind", ev.Kind,
		"x", rel.X, "y", rel.Y,
		"width", s.viewport.Width, "height", s.viewport.Height,
		"zone", control.Zone(s.intent),
	)
}

// Resize records new container dimensions, keeping the offset.
func (s *Session) Resize(width, height float64) {
	s.viewport.Width = width
	s.viewport.Height = height
}

// SetViewport replaces the container offset and dimensions.
func (s *Session) SetViewport(v control.Viewport) {
	s.viewport = v
}

// Viewport returns the current container geometry.
func (s *Session) Viewport() control.Viewport {
	return s.viewport
}

// Restart resets the actor, field, score and clock and returns to Running.
func (s *Session) Restart() {
	s.actor.Reset()
	s.field.Reset()
	s.score = 0
	s.lastScoreUpdate = 0
	s.elapsed = 0
	s.clock.Reset()
	s.intent.Clear()
	s.state = Running
	s.hud.SetScore(0)
	s.hud.SetGameOverVisible(false)
	s.diag.Debug("restart")
}

// Score returns whole seconds survived.
func (s *Session) Score() int { return s.score }

// State returns Running or GameOver.
func (s *Session) State() State { return s.state }

// Intent returns the intent applied on the next step.
func (s *Session) Intent() control.Intent { return s.intent }

// Actor returns the pterodactyl.
func (s *Session) Actor() *object.Pterodactyl { return s.actor }

// Field returns the rock field.
func (s *Session) Field() *object.RockField { return s.field }

// Config returns the session tuning.
func (s *Session) Config() Config { return s.cfg }

// Snapshot copies everything a renderer needs. The result shares nothing
// with the session.
func (s *Session) Snapshot() *Snapshot {
	rocks := s.field.Rocks()
	snap := &Snapshot{
		Frame:    s.frame,
		State:    s.state,
		Score:    s.score,
		Elapsed:  s.elapsed,
		Camera:   s.cfg.Camera,
		Actor:    s.actor.Pose(),
		Rocks:    make([]object.Rock, len(rocks)),
		Intent:   s.intent,
		Viewport: s.viewport,
	}
	copy(snap.Rocks, rocks)
	return snap
}
