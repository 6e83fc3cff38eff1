// Package scene rasterises a game snapshot onto a draw.Canvas.
package scene

import (
	"sort"

	"github.com/tomz197/pterodash/internal/draw"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/object"
)

// minOutlineRadius is the projected radius below which a rock is drawn as a
// plain disc instead of its outline.
const minOutlineRadius = 1.5

// Renderer draws snapshots in logical canvas coordinates.
type Renderer struct {
	proj *object.Projector
	far  float64 // distance at which rocks get the dimmest shade

	rocks []object.Rock // depth-sorted scratch copy
}

// NewRenderer creates a renderer for a logical canvas of the given size.
// far is the rock spawn distance, used for depth shading.
func NewRenderer(width, height, far float64) *Renderer {
	screen := object.Screen{Width: int(width), Height: int(height)}
	return &Renderer{
		proj: object.NewProjector(object.Camera, screen, object.DefaultFOV),
		far:  far,
	}
}

// Far is the distance at which rocks reach the darkest shade.
func (r *Renderer) Far() float64 {
	return r.far
}

// Projector exposes the camera used for drawing.
func (r *Renderer) Projector() *object.Projector {
	return r.proj
}

// Draw paints the snapshot back to front. A nil snapshot draws nothing.
func (r *Renderer) Draw(c *draw.Canvas, snap *game.Snapshot) {
	if snap == nil {
		return
	}

	r.rocks = append(r.rocks[:0], snap.Rocks...)
	sort.Slice(r.rocks, func(i, j int) bool {
		return r.rocks[i].Position.Z() < r.rocks[j].Position.Z()
	})

	actorDrawn := false
	for _, rock := range r.rocks {
		if !actorDrawn && rock.Position.Z() > snap.Actor.Position.Z() {
			r.drawActor(c, snap.Actor)
			actorDrawn = true
		}
		r.drawRock(c, snap, rock)
	}
	if !actorDrawn {
		r.drawActor(c, snap.Actor)
	}
}

func (r *Renderer) drawRock(c *draw.Canvas, snap *game.Snapshot, rock object.Rock) {
	if !rock.Active {
		return
	}
	x, y, ok := r.proj.Project(rock.Position)
	if !ok {
		return
	}
	c.SetInk(draw.RockShade(snap.Camera.Z()-rock.Position.Z(), r.far))

	radius := r.proj.ProjectRadius(rock.Position, rock.Radius)
	if radius < minOutlineRadius {
		c.DrawCircle(draw.Point{X: x, Y: y}, radius, true)
		return
	}

	outline := rock.Outline()
	points := c.BorrowPoints(len(outline))
	for i, v := range outline {
		px, py, ok := r.proj.Project(v)
		if !ok {
			return
		}
		points[i] = draw.Point{X: px, Y: py}
	}
	c.DrawPolygon(points, true)
}

func (r *Renderer) drawActor(c *draw.Canvas, pose object.Pose) {
	sil := pose.Silhouette()
	points := c.BorrowPoints(len(sil))
	for i, v := range sil {
		px, py, ok := r.proj.Project(v)
		if !ok {
			return
		}
		points[i] = draw.Point{X: px, Y: py}
	}

	c.SetInk(draw.ColorPterodactyl)
	c.DrawPolygon(points, true)

	// Leading edges of both wings.
	c.SetInk(draw.ColorWing)
	c.DrawLine(points[0], points[1])
	c.DrawLine(points[3], points[4])
}
