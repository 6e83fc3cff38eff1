package web

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/object"
)

// Client message types.
const (
	MsgPointer = "pointer"
	MsgResize  = "resize"
	MsgRestart = "restart"
)

// Server message types.
const (
	MsgFrame = "frame"
	MsgEvent = "event"
)

// Point is a client coordinate in CSS pixels.
type Point struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// ClientMessage is a browser-to-server frame. Pointer messages carry Kind
// ("down", "move", "up") and every active touch in Points; resize messages
// carry the canvas rectangle.
type ClientMessage struct {
	Type   string  `msgpack:"t"`
	Kind   string  `msgpack:"k,omitempty"`
	Points []Point `msgpack:"p,omitempty"`

	OffsetX float64 `msgpack:"ox,omitempty"`
	OffsetY float64 `msgpack:"oy,omitempty"`
	Width   float64 `msgpack:"w,omitempty"`
	Height  float64 `msgpack:"h,omitempty"`
}

// PointerEvent converts a pointer message. ok is false for unknown kinds.
func (m ClientMessage) PointerEvent() (control.PointerEvent, bool) {
	kind, ok := control.ParsePointerKind(m.Kind)
	if !ok {
		return control.PointerEvent{}, false
	}
	ev := control.PointerEvent{Kind: kind, Points: make([]control.Point, len(m.Points))}
	for i, p := range m.Points {
		ev.Points[i] = control.Point{X: p.X, Y: p.Y}
	}
	return ev, true
}

// Viewport converts a resize message.
func (m ClientMessage) Viewport() control.Viewport {
	return control.Viewport{OffsetX: m.OffsetX, OffsetY: m.OffsetY, Width: m.Width, Height: m.Height}
}

// RockFrame is one rock projected to canvas pixels.
type RockFrame struct {
	X       float64   `msgpack:"x"`
	Y       float64   `msgpack:"y"`
	R       float64   `msgpack:"r"`
	Depth   float64   `msgpack:"d"` // 0 near, 1 at the spawn distance
	Outline []float64 `msgpack:"o,omitempty"` // x0, y0, x1, y1, ...
}

// FrameMessage is a snapshot projected for a canvas of the client's size.
// Rocks are ordered back to front.
type FrameMessage struct {
	Type     string      `msgpack:"t"`
	Frame    uint64      `msgpack:"f"`
	State    string      `msgpack:"s"`
	Score    int         `msgpack:"sc"`
	Actor    []float64   `msgpack:"a"` // silhouette x0, y0, ...
	ActorZ   float64     `msgpack:"az"`
	Rocks    []RockFrame `msgpack:"r"`
	RockZ    []float64   `msgpack:"rz"` // world Z per rock, for interleaving the actor
	Elapsed  float64     `msgpack:"e"`  // seconds survived
	Interval float64     `msgpack:"i"`  // seconds per point
}

// EventMessage forwards a score, game over, restart or shutdown event.
type EventMessage struct {
	Type  string `msgpack:"t"`
	Event string `msgpack:"ev"`
	Score int    `msgpack:"sc"`
}

// DecodeClientMessage parses a binary browser frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode client message: %w", err)
	}
	return m, nil
}

// Encode marshals any server message.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

// EncodeFrame projects a snapshot with proj. far is the rock spawn distance.
func EncodeFrame(snap *game.Snapshot, proj *object.Projector, far float64, interval float64) FrameMessage {
	msg := FrameMessage{
		Type:     MsgFrame,
		Frame:    snap.Frame,
		State:    snap.State.String(),
		Score:    snap.Score,
		ActorZ:   snap.Actor.Position.Z(),
		Elapsed:  snap.Elapsed.Seconds(),
		Interval: interval,
	}

	for _, v := range snap.Actor.Silhouette() {
		x, y, ok := proj.Project(v)
		if !ok {
			msg.Actor = nil
			break
		}
		msg.Actor = append(msg.Actor, x, y)
	}

	rocks := make([]object.Rock, 0, len(snap.Rocks))
	for _, r := range snap.Rocks {
		if r.Active {
			rocks = append(rocks, r)
		}
	}
	sortBackToFront(rocks)

	for _, r := range rocks {
		x, y, ok := proj.Project(r.Position)
		if !ok {
			continue
		}
		rf := RockFrame{
			X:     x,
			Y:     y,
			R:     proj.ProjectRadius(r.Position, r.Radius),
			Depth: depthRatio(snap.Camera.Z()-r.Position.Z(), far),
		}
		for _, v := range r.Outline() {
			ox, oy, ok := proj.Project(v)
			if !ok {
				rf.Outline = nil
				break
			}
			rf.Outline = append(rf.Outline, ox, oy)
		}
		msg.Rocks = append(msg.Rocks, rf)
		msg.RockZ = append(msg.RockZ, r.Position.Z())
	}
	return msg
}

func sortBackToFront(rocks []object.Rock) {
	sort.Slice(rocks, func(i, j int) bool {
		return rocks[i].Position.Z() < rocks[j].Position.Z()
	})
}

func depthRatio(distance, far float64) float64 {
	if far <= 0 {
		return 0
	}
	return min(max(distance/far, 0), 1)
}
