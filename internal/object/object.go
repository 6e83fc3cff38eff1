package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is fixed: it sits behind the actor looking down -Z.
var Camera = mgl64.Vec3{0, 0, 5}

// Screen represents render target dimensions in pixels (canvas pixels for
// the terminal, CSS pixels for the browser).
type Screen struct {
	Width  int
	Height int
}

// Projector maps world positions to screen coordinates with a perspective
// camera. Screen Y grows downward.
type Projector struct {
	screen     Screen
	fovY       float64
	view       mgl64.Mat4
	projection mgl64.Mat4
	near       float64
}

// DefaultFOV is the vertical field of view in degrees.
const DefaultFOV = 75.0

// NewProjector builds a projector for the given camera position and screen.
func NewProjector(camera mgl64.Vec3, screen Screen, fovDegrees float64) *Projector {
	p := &Projector{
		fovY: mgl64.DegToRad(fovDegrees),
		view: mgl64.LookAtV(camera, camera.Sub(mgl64.Vec3{0, 0, 1}), mgl64.Vec3{0, 1, 0}),
		near: 0.1,
	}
	p.Resize(screen)
	return p
}

// Resize updates the aspect ratio after the screen changed.
func (p *Projector) Resize(screen Screen) {
	if screen.Width < 1 {
		screen.Width = 1
	}
	if screen.Height < 1 {
		screen.Height = 1
	}
	p.screen = screen
	aspect := float64(screen.Width) / float64(screen.Height)
	p.projection = mgl64.Perspective(p.fovY, aspect, p.near, 1000)
}

// Screen returns the current target dimensions.
func (p *Projector) Screen() Screen {
	return p.screen
}

// depth returns the distance in front of the camera (positive = visible side).
func (p *Projector) depth(world mgl64.Vec3) float64 {
	return -p.view.Mul4x1(world.Vec4(1)).Z()
}

// Project returns the screen position of a world point. ok is false for
// points behind the near plane.
func (p *Projector) Project(world mgl64.Vec3) (x, y float64, ok bool) {
	if p.depth(world) <= p.near {
		return 0, 0, false
	}
	win := mgl64.Project(world, p.view, p.projection, 0, 0, p.screen.Width, p.screen.Height)
	return win.X(), float64(p.screen.Height) - win.Y(), true
}

// ProjectRadius returns the on-screen radius of a sphere at world.
func (p *Projector) ProjectRadius(world mgl64.Vec3, radius float64) float64 {
	d := p.depth(world)
	if d <= p.near {
		return 0
	}
	return radius * float64(p.screen.Height) / 2 / (math.Tan(p.fovY/2) * d)
}

// ShouldRenderBlink returns true if something with remainingTime left should
// be drawn this frame (for blinking effect).
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
