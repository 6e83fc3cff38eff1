package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/pterodash/internal/control"
	"github.com/tomz197/pterodash/internal/diag"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples front-ends from the concrete Server implementation, enabling
// testing and network transports.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendPointer(clientID int, ev control.PointerEvent)
	SetViewport(clientID int, v control.Viewport)
	Restart(clientID int)
	GetSnapshot(clientID int) *game.Snapshot
}

// Server hosts one independent game session per client and steps all of them
// on a single goroutine.
type Server struct {
	opts         Options
	log          *log.Logger
	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan ClientInput
	membershipCh chan membership // joins and leaves, in call order
	done         chan struct{}   // closed when Run returns
	stopOnce     sync.Once
	mu           sync.RWMutex
	frames       atomic.Uint64
}

// membership is a queued join (handle set) or leave.
type membership struct {
	handle   *ClientHandle
	clientID int
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Options configures a Server. Zero fields get defaults.
type Options struct {
	Game      game.Config                       // Session tuning for every client
	TickTime  time.Duration                     // Frame period
	NewTicker func(d time.Duration) Ticker      // Frame scheduler
	NewClock  func() game.Clock                 // Per-session clock
	Logger    *log.Logger                       // Server and session diagnostics
	OnEvent   func(clientID int, e ClientEvent) // Optional observer, called on the server goroutine
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (score, game over, ...)

	session  *game.Session // owned by the server goroutine
	snapshot atomic.Pointer[game.Snapshot]
}

// Snapshot returns the latest published state of this client's session.
func (h *ClientHandle) Snapshot() *game.Snapshot {
	return h.snapshot.Load()
}

// InputKind identifies what a ClientInput carries.
type InputKind int

const (
	InputPointer InputKind = iota
	InputViewport
	InputRestart
)

// ClientInput represents input from a specific client.
type ClientInput struct {
	ClientID int
	Kind     InputKind
	Pointer  control.PointerEvent
	Viewport control.Viewport
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Score int // Current score for EventScore and EventGameOver
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventScore ClientEventType = iota
	EventGameOver
	EventRestart
	EventServerShutdown
)

func (t ClientEventType) String() string {
	switch t {
	case EventScore:
		return "score"
	case EventGameOver:
		return "game_over"
	case EventRestart:
		return "restart"
	case EventServerShutdown:
		return "server_shutdown"
	default:
		return "unknown"
	}
}

// NewServer creates a new game server.
func NewServer(opts Options) *Server {
	if opts.Game == (game.Config{}) {
		opts.Game = game.DefaultConfig()
	}
	if opts.TickTime <= 0 {
		opts.TickTime = config.ServerTickTime
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTicker
	}
	if opts.NewClock == nil {
		opts.NewClock = func() game.Clock { return game.NewSystemClock() }
	}
	if opts.Logger == nil {
		opts.Logger = diag.Nop()
	}

	return &Server{
		opts:         opts,
		log:          opts.Logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan ClientInput, 256),
		membershipCh: make(chan membership, 16),
		done:         make(chan struct{}),
	}
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := s.opts.NewTicker(s.opts.TickTime)
	defer ticker.Stop()
	defer s.stopOnce.Do(func() { close(s.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.tick()
		}
	}
}

// tick runs one frame for every session.
func (s *Server) tick() {
	// Process registrations/unregistrations
	s.processRegistrations()

	// Apply pending inputs in arrival order
	s.collectInputs()

	// Step sessions and publish snapshots
	s.updateSessions()

	s.frames.Add(1)
}

// Frames returns the number of completed server frames.
func (s *Server) Frames() uint64 {
	return s.frames.Load()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// Players returns the number of registered clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// RegisterClient creates a session for a new client and returns its handle.
// The handle's snapshot is usable immediately.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	cfg := s.opts.Game
	if cfg.Seed != 0 {
		cfg.Seed += int64(id)
	}
	handle.session = game.NewSession(cfg, game.Options{
		Clock:       s.opts.NewClock(),
		HUD:         &clientHUD{server: s, handle: handle},
		Diagnostics: s.log.With("client", id),
	})
	handle.snapshot.Store(handle.session.Snapshot())

	s.enqueue(membership{handle: handle, clientID: id})
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.enqueue(membership{clientID: clientID})
}

// enqueue hands a join or leave to the server loop. Once Run has returned
// nothing drains the queue, so the change is applied directly.
func (s *Server) enqueue(m membership) {
	select {
	case <-s.done:
		s.applyMembership(m)
		return
	default:
	}
	select {
	case s.membershipCh <- m:
	case <-s.done:
		s.applyMembership(m)
	}
}

// SendPointer queues a pointer event for a client's session.
func (s *Server) SendPointer(clientID int, ev control.PointerEvent) {
	s.send(ClientInput{ClientID: clientID, Kind: InputPointer, Pointer: ev})
}

// SetViewport queues new container geometry for a client's session.
func (s *Server) SetViewport(clientID int, v control.Viewport) {
	s.send(ClientInput{ClientID: clientID, Kind: InputViewport, Viewport: v})
}

// Restart queues a restart regardless of the session state.
func (s *Server) Restart(clientID int) {
	s.send(ClientInput{ClientID: clientID, Kind: InputRestart})
}

func (s *Server) send(ci ClientInput) {
	select {
	case s.inputChan <- ci:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the latest snapshot for a client, or nil if unknown.
func (s *Server) GetSnapshot(clientID int) *game.Snapshot {
	s.mu.RLock()
	handle, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return handle.Snapshot()
}

// processRegistrations applies pending joins and leaves in call order.
func (s *Server) processRegistrations() {
	for {
		select {
		case m := <-s.membershipCh:
			s.applyMembership(m)
		default:
			return
		}
	}
}

func (s *Server) applyMembership(m membership) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.handle != nil {
		s.clients[m.handle.ID] = m.handle
		s.log.Info("client joined", "client", m.handle.ID, "user", m.handle.Username)
		return
	}
	if handle, ok := s.clients[m.clientID]; ok {
		close(handle.EventsCh)
		delete(s.clients, m.clientID)
		s.log.Info("client left", "client", m.clientID, "score", handle.session.Score())
	}
}

// collectInputs applies all pending inputs. Pointer events are applied in
// order, so the last one of the frame decides the intent.
func (s *Server) collectInputs() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		select {
		case ci := <-s.inputChan:
			handle, ok := s.clients[ci.ClientID]
			if !ok {
				continue
			}
			switch ci.Kind {
			case InputPointer:
				handle.session.HandlePointer(ci.Pointer)
			case InputViewport:
				handle.session.SetViewport(ci.Viewport)
			case InputRestart:
				handle.session.Restart()
			}
		default:
			return
		}
	}
}

// updateSessions steps every session and publishes its snapshot.
func (s *Server) updateSessions() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, handle := range s.clients {
		handle.session.Frame()
		handle.snapshot.Store(handle.session.Snapshot())
	}
}

// notify sends an event without blocking the server loop.
func (s *Server) notify(handle *ClientHandle, e ClientEvent) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(handle.ID, e)
	}
	select {
	case handle.EventsCh <- e:
	default:
	}
}

// clientHUD turns session HUD calls into client events.
type clientHUD struct {
	server *Server
	handle *ClientHandle
	score  int
}

func (h *clientHUD) SetScore(score int) {
	h.score = score
	if score == 0 {
		return // reset is reported by EventRestart
	}
	h.server.notify(h.handle, ClientEvent{Type: EventScore, Score: score})
}

func (h *clientHUD) SetGameOverVisible(visible bool) {
	if visible {
		h.server.notify(h.handle, ClientEvent{Type: EventGameOver, Score: h.score})
		return
	}
	h.server.notify(h.handle, ClientEvent{Type: EventRestart})
}
