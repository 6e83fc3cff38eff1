package object

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle identifies a slot in the rock arena. Handles are reused once a rock
// has been recycled.
type Handle int

// rockVertices is the number of outline vertices per rock.
const rockVertices = 8

// Rock is an obstacle flying toward the camera.
type Rock struct {
	Handle   Handle
	Position mgl64.Vec3
	Radius   float64 // Collision sphere radius
	Active   bool

	Angle         float64               // Outline rotation (cosmetic)
	RotationSpeed float64               // Radians per second
	Shape         [rockVertices]float64 // Vertex distances as a fraction of Radius
}

// shape gives the rock an irregular outline. Vertices vary by ±30% of the
// radius; the collision sphere stays at Radius.
func (r *Rock) shape(rng *rand.Rand) {
	for i := range r.Shape {
		r.Shape[i] = 0.7 + rng.Float64()*0.6
	}
	r.Angle = rng.Float64() * 2 * math.Pi
	r.RotationSpeed = (rng.Float64() - 0.5) * 2.0
}

// Outline returns the rock's vertices in world space, in the plane facing the
// camera.
func (r Rock) Outline() [rockVertices]mgl64.Vec3 {
	var out [rockVertices]mgl64.Vec3
	for i, k := range r.Shape {
		a := r.Angle + float64(i)*2*math.Pi/rockVertices
		d := k * r.Radius
		out[i] = r.Position.Add(mgl64.Vec3{math.Cos(a) * d, math.Sin(a) * d, 0})
	}
	return out
}
