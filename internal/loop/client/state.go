package client

import (
	"time"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/input"
)

// ClientState holds per-connection state: what the player sees and what
// input has been forwarded.
type ClientState struct {
	Input     input.Input
	Score     int  // Last score reported by the server
	GameOver  bool // Session is frozen waiting for a restart
	Running   bool // Client loop running
	Shutdown  bool // Server is shutting down
	delta     time.Duration
	sinceOver float64 // Seconds since game over, drives the banner blink

	viewport    control.Viewport // Last geometry sent to the server
	pointerDown bool             // Mouse button held
	keyIntent   control.Intent   // Direction currently held on the keyboard

	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state

	// Previous-frame values for full-screen redraw on transitions.
	wasGameOver bool
	wasInactive bool
	wasShutdown bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{Running: true}
}
