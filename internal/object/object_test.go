package object

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/pterodash/internal/control"
)

const frame = 16 * time.Millisecond

func TestPterodactylMovesOnlyWithIntent(t *testing.T) {
	p := NewPterodactyl(DefaultPterodactylConfig())

	p.Update(control.Intent{Up: true, Right: true}, 250*time.Millisecond)
	if got := p.Position; math.Abs(got.X()-1) > 1e-9 || math.Abs(got.Y()-1) > 1e-9 {
		t.Fatalf("after up-right 0.25s position = %v, want (1,1,0)", got)
	}

	before := p.Position
	p.Update(control.Intent{}, time.Second)
	if p.Position != before {
		t.Fatalf("actor coasted without intent: %v -> %v", before, p.Position)
	}
	if roll, pitch := p.Tilt(); roll != 0 || pitch != 0 {
		t.Fatalf("tilt without intent = (%v,%v), want neutral", roll, pitch)
	}
}

func TestPterodactylTiltFollowsIntent(t *testing.T) {
	cfg := DefaultPterodactylConfig()
	p := NewPterodactyl(cfg)

	p.Update(control.Intent{Down: true, Right: true}, frame)
	roll, pitch := p.Tilt()
	if roll != -cfg.MaxRoll || pitch != -cfg.MaxPitch {
		t.Fatalf("tilt = (%v,%v), want (%v,%v)", roll, pitch, -cfg.MaxRoll, -cfg.MaxPitch)
	}
}

func TestPterodactylStaysInFlightBand(t *testing.T) {
	cfg := DefaultPterodactylConfig()
	p := NewPterodactyl(cfg)
	for i := 0; i < 1000; i++ {
		p.Update(control.Intent{Up: true, Left: true}, frame)
	}
	if p.Position.X() != -cfg.BoundX || p.Position.Y() != cfg.BoundY {
		t.Fatalf("position = %v, want clamped to (%v,%v)", p.Position, -cfg.BoundX, cfg.BoundY)
	}
}

func TestAnimateWingsIsPeriodicAndBounded(t *testing.T) {
	cfg := DefaultPterodactylConfig()
	p := NewPterodactyl(cfg)
	for ms := 0; ms < 5000; ms += 7 {
		p.AnimateWings(time.Duration(ms) * time.Millisecond)
		if math.Abs(p.Wing()) > cfg.WingAmplitude+1e-12 {
			t.Fatalf("wing %v exceeds amplitude at %dms", p.Wing(), ms)
		}
	}
	p.AnimateWings(0)
	if p.Wing() != 0 {
		t.Fatalf("wing at t=0 = %v, want 0", p.Wing())
	}
}

func TestPterodactylReset(t *testing.T) {
	p := NewPterodactyl(DefaultPterodactylConfig())
	p.Update(control.Intent{Up: true, Left: true}, time.Second)
	p.AnimateWings(300 * time.Millisecond)

	p.Reset()
	if p.Position != p.Config().Spawn || p.Wing() != 0 {
		t.Fatalf("after reset position=%v wing=%v", p.Position, p.Wing())
	}
	if roll, pitch := p.Tilt(); roll != 0 || pitch != 0 {
		t.Fatalf("after reset tilt = (%v,%v)", roll, pitch)
	}
}

func TestCheckCollision(t *testing.T) {
	p := NewPterodactyl(DefaultPterodactylConfig())
	f := NewRockField(DefaultRockFieldConfig(), rand.New(rand.NewSource(1)))

	if p.CheckCollision(f.Rocks()) {
		t.Fatal("collision with an empty field")
	}

	f.Spawn(mgl64.Vec3{0, 0, -10}, 0.5)
	if p.CheckCollision(f.Rocks()) {
		t.Fatal("collision with a distant rock")
	}

	f.Spawn(p.Position, p.Radius())
	first := p.CheckCollision(f.Rocks())
	second := p.CheckCollision(f.Rocks())
	if !first || !second {
		t.Fatalf("coincident rock: collisions = %v, %v; want true twice", first, second)
	}

	inactive := []Rock{{Position: p.Position, Radius: 1, Active: false}}
	if p.CheckCollision(inactive) {
		t.Fatal("inactive rock counted as a hit")
	}
}

func TestRockFieldSpawnCadence(t *testing.T) {
	cfg := DefaultRockFieldConfig()
	f := NewRockField(cfg, rand.New(rand.NewSource(7)))

	ticks := int(cfg.SpawnInterval/frame) - 1
	for i := 0; i < ticks; i++ {
		if res := f.Update(frame, Camera); res.Spawned != 0 {
			t.Fatalf("spawned at tick %d before the interval elapsed", i)
		}
	}
	if f.Len() != 0 {
		t.Fatalf("Len = %d before first spawn", f.Len())
	}

	f.Update(frame, Camera)
	if f.Len() != 1 {
		t.Fatalf("Len = %d after interval, want 1", f.Len())
	}
	r := f.Rocks()[0]
	if math.Abs(r.Position.X()) > cfg.BandX || math.Abs(r.Position.Y()) > cfg.BandY {
		t.Fatalf("rock spawned outside the band: %v", r.Position)
	}
	if r.Radius < cfg.MinRadius || r.Radius > cfg.MaxRadius {
		t.Fatalf("radius %v outside [%v,%v]", r.Radius, cfg.MinRadius, cfg.MaxRadius)
	}
	wantZ := Camera.Z() - cfg.SpawnDistance + cfg.Speed*frame.Seconds()
	if math.Abs(r.Position.Z()-wantZ) > 1e-9 {
		t.Fatalf("rock Z = %v, want %v", r.Position.Z(), wantZ)
	}
}

func TestRockFieldNeverReturnsRecycledRocks(t *testing.T) {
	cfg := DefaultRockFieldConfig()
	f := NewRockField(cfg, rand.New(rand.NewSource(3)))
	limit := Camera.Z() + cfg.RecycleDistance

	recycled := 0
	for i := 0; i < 2000; i++ {
		res := f.Update(frame, Camera)
		recycled += res.Recycled
		for _, r := range f.Rocks() {
			if !r.Active || r.Position.Z() > limit {
				t.Fatalf("tick %d: rock %d at z=%v returned past the recycle threshold", i, r.Handle, r.Position.Z())
			}
		}
	}
	if recycled == 0 {
		t.Fatal("no rock was ever recycled")
	}
	if f.Capacity() > cfg.InitialCapacity {
		t.Fatalf("arena grew to %d slots; steady state should fit in %d", f.Capacity(), cfg.InitialCapacity)
	}
}

func TestRockFieldReusesFreedSlots(t *testing.T) {
	f := NewRockField(DefaultRockFieldConfig(), rand.New(rand.NewSource(5)))

	h := f.Spawn(mgl64.Vec3{0, 0, 6.9}, 0.5)
	f.Update(10*time.Millisecond, Camera) // 6.9 + 0.15 passes 7
	if r, _ := f.Rock(h); r.Active {
		t.Fatalf("rock %d should have been recycled", h)
	}

	again := f.Spawn(mgl64.Vec3{0, 0, -20}, 0.5)
	if again != h {
		t.Fatalf("spawn used handle %d, want recycled handle %d", again, h)
	}
	if f.Capacity() != 1 {
		t.Fatalf("Capacity = %d, want 1", f.Capacity())
	}
}

func TestRockFieldReset(t *testing.T) {
	cfg := DefaultRockFieldConfig()
	f := NewRockField(cfg, rand.New(rand.NewSource(9)))
	for i := 0; i < 300; i++ {
		f.Update(frame, Camera)
	}
	if f.Len() == 0 {
		t.Fatal("expected active rocks before reset")
	}

	f.Reset()
	if f.Len() != 0 || len(f.Rocks()) != 0 {
		t.Fatalf("Len after reset = %d", f.Len())
	}

	// The timer restarts, so the first spawn comes a full interval later.
	ticks := int(cfg.SpawnInterval/frame) - 1
	for i := 0; i < ticks; i++ {
		f.Update(frame, Camera)
	}
	if f.Len() != 0 {
		t.Fatal("rock spawned before the restarted interval elapsed")
	}
}

func TestRocksViewReflectsSpawn(t *testing.T) {
	f := NewRockField(DefaultRockFieldConfig(), rand.New(rand.NewSource(2)))
	h := f.Spawn(mgl64.Vec3{1, 2, -3}, 0.7)
	rocks := f.Rocks()
	if len(rocks) != 1 || rocks[0].Handle != h || rocks[0].Radius != 0.7 {
		t.Fatalf("Rocks = %+v", rocks)
	}
}

func TestProjectorCentreAndFlip(t *testing.T) {
	p := NewProjector(Camera, Screen{Width: 120, Height: 80}, DefaultFOV)

	x, y, ok := p.Project(mgl64.Vec3{0, 0, 0})
	if !ok || math.Abs(x-60) > 1e-9 || math.Abs(y-40) > 1e-9 {
		t.Fatalf("origin projected to (%v,%v,%v), want centre", x, y, ok)
	}

	_, yUp, _ := p.Project(mgl64.Vec3{0, 1, 0})
	if yUp >= y {
		t.Fatalf("higher world point projected lower on screen: %v >= %v", yUp, y)
	}
	xRight, _, _ := p.Project(mgl64.Vec3{1, 0, 0})
	if xRight <= x {
		t.Fatalf("point to the right projected left: %v <= %v", xRight, x)
	}

	if _, _, ok := p.Project(mgl64.Vec3{0, 0, 6}); ok {
		t.Fatal("point behind the camera reported visible")
	}
}

func TestProjectRadiusShrinksWithDistance(t *testing.T) {
	p := NewProjector(Camera, Screen{Width: 120, Height: 80}, DefaultFOV)
	near := p.ProjectRadius(mgl64.Vec3{0, 0, 0}, 1)
	far := p.ProjectRadius(mgl64.Vec3{0, 0, -50}, 1)
	if !(near > far && far > 0) {
		t.Fatalf("projected radii near=%v far=%v", near, far)
	}
	if p.ProjectRadius(mgl64.Vec3{0, 0, 10}, 1) != 0 {
		t.Fatal("sphere behind the camera has a projected radius")
	}
}

func TestSilhouetteFollowsPose(t *testing.T) {
	pose := Pose{Position: mgl64.Vec3{1, 1, 0}, Radius: 0.5}
	level := pose.Silhouette()
	if level[0].Y() != level[4].Y() {
		t.Fatalf("level wings not symmetric: %v vs %v", level[0], level[4])
	}

	pose.Roll = -0.5 // banking right
	banked := pose.Silhouette()
	if banked[4].Y() >= banked[0].Y() {
		t.Fatalf("right wingtip should dip when banking right: left %v right %v", banked[0], banked[4])
	}
}
