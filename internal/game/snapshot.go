package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/object"
)

// Snapshot is an immutable copy of a session for rendering.
type Snapshot struct {
	Frame    uint64
	State    State
	Score    int
	Elapsed  time.Duration
	Camera   mgl64.Vec3
	Actor    object.Pose
	Rocks    []object.Rock
	Intent   control.Intent
	Viewport control.Viewport
}

// IsGameOver reports whether the session is frozen waiting for a restart.
func (s *Snapshot) IsGameOver() bool {
	return s != nil && s.State == GameOver
}
