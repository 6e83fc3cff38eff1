package control

// PointerKind identifies the phase of a pointer or touch event.
type PointerKind int

const (
	PointerDown PointerKind = iota // mousedown / touchstart
	PointerMove                    // mousemove while pressed / touchmove
	PointerUp                      // mouseup / touchend
)

// String returns the lower-case name used in logs and on the wire.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// ParsePointerKind is the inverse of PointerKind.String.
func ParsePointerKind(s string) (PointerKind, bool) {
	switch s {
	case "down":
		return PointerDown, true
	case "move":
		return PointerMove, true
	case "up":
		return PointerUp, true
	}
	return 0, false
}

// Point is a client coordinate (before the container offset is removed).
type Point struct {
	X, Y float64
}

// PointerEvent is one mouse or touch event. Mouse events carry exactly one
// point; touch events carry every active touch and only the first is used.
type PointerEvent struct {
	Kind   PointerKind
	Points []Point
}

// First returns the primary point, or false if the event has none
// (for example a touch event whose touch list is empty).
func (e PointerEvent) First() (Point, bool) {
	if len(e.Points) == 0 {
		return Point{}, false
	}
	return e.Points[0], true
}

// Down is shorthand for a single-point PointerDown event.
func Down(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, Points: []Point{{X: x, Y: y}}}
}

// Move is shorthand for a single-point PointerMove event.
func Move(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, Points: []Point{{X: x, Y: y}}}
}

// Up is shorthand for a PointerUp event.
func Up() PointerEvent {
	return PointerEvent{Kind: PointerUp}
}

// Viewport describes the game container: its offset inside the client area
// and its current size. Client coordinates are made container-relative
// before they are mapped, so a centred or letterboxed game area still splits
// into the thirds the player sees.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// Relative converts a client coordinate into container coordinates.
func (v Viewport) Relative(p Point) Point {
	return Point{X: p.X - v.OffsetX, Y: p.Y - v.OffsetY}
}

// Map returns the intent for a client coordinate.
func (v Viewport) Map(p Point) Intent {
	r := v.Relative(p)
	return MapPointer(r.X, r.Y, v.Width, v.Height)
}

// Zone returns a human-readable name for an intent, e.g. "up-left".
func Zone(i Intent) string {
	var v, h string
	switch i.Vertical() {
	case 1:
		v = "up"
	case -1:
		v = "down"
	}
	switch i.Horizontal() {
	case 1:
		h = "right"
	case -1:
		h = "left"
	}
	switch {
	case v != "" && h != "":
		return v + "-" + h
	case v != "":
		return v
	case h != "":
		return h
	}
	return "center"
}

// ZoneCenter returns the client coordinate at the middle of the third that
// maps to i. Keyboard clients use it to synthesise pointer events.
func (v Viewport) ZoneCenter(i Intent) Point {
	return Point{
		X: v.OffsetX + v.Width/2 + float64(i.Horizontal())*v.Width/3,
		Y: v.OffsetY + v.Height/2 - float64(i.Vertical())*v.Height/3,
	}
}
