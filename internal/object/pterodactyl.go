package object

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/physics"
)

// PterodactylConfig holds the actor's tuning values.
type PterodactylConfig struct {
	Spawn              mgl64.Vec3 // Initial position, restored by Reset
	Speed              float64    // World units per second along each active axis
	Radius             float64    // Collision sphere radius
	BoundX             float64    // Flight band half-width (0 = unbounded)
	BoundY             float64    // Flight band half-height (0 = unbounded)
	MaxRoll            float64    // Bank angle in radians at full lateral intent
	MaxPitch           float64    // Nose angle in radians at full vertical intent
	FlapRate           float64    // Wing oscillation in radians per second
	WingAmplitude      float64    // Peak wing deflection
	CollisionTolerance float64    // Overlap forgiven before a hit counts
}

// DefaultPterodactylConfig returns the standard actor tuning.
func DefaultPterodactylConfig() PterodactylConfig {
	return PterodactylConfig{
		Spawn:              mgl64.Vec3{0, 0, 0},
		Speed:              4.0,
		Radius:             0.5,
		BoundX:             4.0,
		BoundY:             2.5,
		MaxRoll:            0.5,
		MaxPitch:           0.25,
		FlapRate:           8.0,
		WingAmplitude:      0.6,
		CollisionTolerance: 0.1,
	}
}

// Pterodactyl is the player-controlled flyer.
//
// Motion has no inertia: each frame the actor moves Speed*dt along every axis
// that has intent and stands still on the others. Tilt is not stored; it is
// derived from the directions applied in the last Update.
type Pterodactyl struct {
	cfg PterodactylConfig

	Position mgl64.Vec3

	vertical   int // last applied vertical direction (-1, 0, +1)
	horizontal int // last applied lateral direction (-1, 0, +1)
	wing       float64
}

// NewPterodactyl creates an actor at cfg.Spawn.
func NewPterodactyl(cfg PterodactylConfig) *Pterodactyl {
	p := &Pterodactyl{cfg: cfg}
	p.Reset()
	return p
}

// Config returns the actor's tuning.
func (p *Pterodactyl) Config() PterodactylConfig {
	return p.cfg
}

// Update moves the actor according to intent.
func (p *Pterodactyl) Update(intent control.Intent, delta time.Duration) {
	dt := delta.Seconds()

	p.vertical = intent.Vertical()
	p.horizontal = intent.Horizontal()

	step := p.cfg.Speed * dt
	p.Position[0] = physics.Clamp(p.Position[0]+float64(p.horizontal)*step, p.cfg.BoundX)
	p.Position[1] = physics.Clamp(p.Position[1]+float64(p.vertical)*step, p.cfg.BoundY)
}

// Tilt returns the visual bank (roll) and nose (pitch) angles in radians.
// Banking right rolls clockwise as seen from behind.
func (p *Pterodactyl) Tilt() (roll, pitch float64) {
	return -float64(p.horizontal) * p.cfg.MaxRoll, float64(p.vertical) * p.cfg.MaxPitch
}

// AnimateWings sets the wing pose from the session's elapsed time.
func (p *Pterodactyl) AnimateWings(elapsed time.Duration) {
	p.wing = p.cfg.WingAmplitude * math.Sin(elapsed.Seconds()*p.cfg.FlapRate)
}

// Wing returns the current wing deflection.
func (p *Pterodactyl) Wing() float64 {
	return p.wing
}

// Radius returns the collision sphere radius.
func (p *Pterodactyl) Radius() float64 {
	return p.cfg.Radius
}

// CheckCollision reports whether any active rock overlaps the actor.
func (p *Pterodactyl) CheckCollision(rocks []Rock) bool {
	box := physics.BoxAround(p.Position, p.cfg.Radius)
	for i := range rocks {
		r := &rocks[i]
		if !r.Active || !box.Overlaps(physics.BoxAround(r.Position, r.Radius)) {
			continue
		}
		if physics.SpheresOverlap(p.Position, p.cfg.Radius, r.Position, r.Radius, p.cfg.CollisionTolerance) {
			return true
		}
	}
	return false
}

// Reset restores the spawn position, neutral tilt and the initial wing phase.
func (p *Pterodactyl) Reset() {
	p.Position = p.cfg.Spawn
	p.vertical = 0
	p.horizontal = 0
	p.wing = 0
}

// Pose returns a value copy of everything a renderer needs.
func (p *Pterodactyl) Pose() Pose {
	roll, pitch := p.Tilt()
	return Pose{
		Position: p.Position,
		Radius:   p.cfg.Radius,
		Roll:     roll,
		Pitch:    pitch,
		Wing:     p.wing,
	}
}

// Pose is an immutable view of the actor for rendering.
type Pose struct {
	Position mgl64.Vec3
	Radius   float64
	Roll     float64
	Pitch    float64
	Wing     float64
}

// silhouette is the outline seen from behind, in units of the actor radius:
// left wingtip, left shoulder, crest, right shoulder, right wingtip, tail.
// Wingtip Y is replaced by the wing pose.
var silhouette = [6]mgl64.Vec3{
	{-2.8, 0, 0.2},
	{-0.8, 0.1, 0},
	{0, 0.6, -1.0},
	{0.8, 0.1, 0},
	{2.8, 0, 0.2},
	{0, -0.7, 0.6},
}

// Silhouette returns the actor outline in world space with roll, pitch and
// wing pose applied.
func (p Pose) Silhouette() [6]mgl64.Vec3 {
	rot := mgl64.Rotate3DZ(p.Roll).Mul3(mgl64.Rotate3DX(p.Pitch))

	var out [6]mgl64.Vec3
	for i, local := range silhouette {
		if i == 0 || i == len(silhouette)-2 {
			local[1] = p.Wing
		}
		out[i] = p.Position.Add(rot.Mul3x1(local.Mul(p.Radius)))
	}
	return out
}
