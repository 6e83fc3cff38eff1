// Package physics provides collision detection and distance utilities.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// SpheresOverlap checks if two spheres overlap once both radii are shrunk by
// the shared tolerance. A positive tolerance forgives grazing contacts.
// Coincident centres always overlap as long as r1+r2 > tolerance.
func SpheresOverlap(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2, tolerance float64) bool {
	minDist := r1 + r2 - tolerance
	if minDist <= 0 {
		return false
	}
	return DistanceSquared(c1, c2) < minDist*minDist
}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max mgl64.Vec3
}

// BoxAround returns the cube of half-size r centred on c.
func BoxAround(c mgl64.Vec3, r float64) AABB {
	half := mgl64.Vec3{r, r, r}
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// Overlaps reports whether two boxes intersect (touching faces count).
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Clamp limits v to [-limit, limit]. A non-positive limit disables clamping.
func Clamp(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
