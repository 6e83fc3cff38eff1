package object

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// RockFieldConfig holds the obstacle spawn and travel tuning.
type RockFieldConfig struct {
	SpawnInterval   time.Duration // Time between spawns; also the initial timer
	SpawnDistance   float64       // Spawn this far ahead of the camera along -Z
	BandX           float64       // Lateral spawn band half-width
	BandY           float64       // Vertical spawn band half-height
	Speed           float64       // Travel speed toward the camera (+Z)
	RecycleDistance float64       // Recycle once this far behind the camera
	MinRadius       float64
	MaxRadius       float64
	InitialCapacity int // Arena slots allocated up front
}

// DefaultRockFieldConfig returns the standard obstacle tuning.
func DefaultRockFieldConfig() RockFieldConfig {
	return RockFieldConfig{
		SpawnInterval:   800 * time.Millisecond,
		SpawnDistance:   60,
		BandX:           4,
		BandY:           2.5,
		Speed:           15,
		RecycleDistance: 2,
		MinRadius:       0.4,
		MaxRadius:       0.9,
		InitialCapacity: 16,
	}
}

// FieldUpdate reports what one Update did.
type FieldUpdate struct {
	Spawned  int
	Recycled int
}

// RockField owns every rock. Rocks live in an arena of slots indexed by
// Handle; recycled slots go on a free list and are reused by later spawns,
// so a warmed-up field spawns without allocating.
type RockField struct {
	cfg RockFieldConfig
	rng *rand.Rand

	slots      []Rock
	free       []Handle
	active     []Rock // view returned by Rocks, rebuilt after each mutation
	spawnTimer time.Duration
}

// NewRockField creates an empty field. rng drives spawn positions, sizes
// and outlines.
func NewRockField(cfg RockFieldConfig, rng *rand.Rand) *RockField {
	if cfg.InitialCapacity < 1 {
		cfg.InitialCapacity = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RockField{
		cfg:        cfg,
		rng:        rng,
		slots:      make([]Rock, 0, cfg.InitialCapacity),
		free:       make([]Handle, 0, cfg.InitialCapacity),
		active:     make([]Rock, 0, cfg.InitialCapacity),
		spawnTimer: cfg.SpawnInterval,
	}
}

// Config returns the field's tuning.
func (f *RockField) Config() RockFieldConfig {
	return f.cfg
}

// Update runs one frame: spawn when the timer runs out, advance every active
// rock toward the camera, then recycle those that passed behind it.
func (f *RockField) Update(delta time.Duration, camera mgl64.Vec3) FieldUpdate {
	var res FieldUpdate

	f.spawnTimer -= delta
	if f.spawnTimer <= 0 {
		pos := mgl64.Vec3{
			f.uniform(f.cfg.BandX),
			f.uniform(f.cfg.BandY),
			camera.Z() - f.cfg.SpawnDistance,
		}
		radius := f.cfg.MinRadius + f.rng.Float64()*(f.cfg.MaxRadius-f.cfg.MinRadius)
		f.place(pos, radius)
		f.spawnTimer = f.cfg.SpawnInterval
		res.Spawned++
	}

	dt := delta.Seconds()
	limit := camera.Z() + f.cfg.RecycleDistance
	for i := range f.slots {
		r := &f.slots[i]
		if !r.Active {
			continue
		}
		r.Position[2] += f.cfg.Speed * dt
		r.Angle += r.RotationSpeed * dt
		if r.Position.Z() > limit {
			r.Active = false
			f.free = append(f.free, r.Handle)
			res.Recycled++
		}
	}

	f.rebuild()
	return res
}

// Spawn places a rock directly, bypassing the timer.
func (f *RockField) Spawn(position mgl64.Vec3, radius float64) Handle {
	h := f.place(position, radius)
	f.rebuild()
	return h
}

// Rocks returns the active rocks as of the latest Update, Spawn or Reset.
// The slice is owned by the field and is overwritten by the next mutation;
// callers that keep it must copy it.
func (f *RockField) Rocks() []Rock {
	return f.active
}

// Rock returns the slot for h.
func (f *RockField) Rock(h Handle) (Rock, bool) {
	if h < 0 || int(h) >= len(f.slots) {
		return Rock{}, false
	}
	return f.slots[h], true
}

// Len returns the number of active rocks.
func (f *RockField) Len() int {
	return len(f.active)
}

// Capacity returns the number of arena slots ever allocated.
func (f *RockField) Capacity() int {
	return len(f.slots)
}

// Reset deactivates every rock and restarts the spawn timer, so density ramps
// up again exactly as it did after the first start.
func (f *RockField) Reset() {
	f.free = f.free[:0]
	for i := len(f.slots) - 1; i >= 0; i-- {
		f.slots[i].Active = false
		f.free = append(f.free, f.slots[i].Handle)
	}
	f.spawnTimer = f.cfg.SpawnInterval
	f.rebuild()
}

func (f *RockField) place(position mgl64.Vec3, radius float64) Handle {
	var h Handle
	if n := len(f.free); n > 0 {
		h = f.free[n-1]
		f.free = f.free[:n-1]
	} else {
		h = Handle(len(f.slots))
		f.slots = append(f.slots, Rock{Handle: h})
	}

	r := &f.slots[h]
	r.Position = position
	r.Radius = radius
	r.Active = true
	r.shape(f.rng)
	return h
}

func (f *RockField) rebuild() {
	f.active = f.active[:0]
	for i := range f.slots {
		if f.slots[i].Active {
			f.active = append(f.active, f.slots[i])
		}
	}
}

// uniform returns a value in [-half, half].
func (f *RockField) uniform(half float64) float64 {
	return (f.rng.Float64()*2 - 1) * half
}
