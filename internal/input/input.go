package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so this bridges the gap between them.
const keyHoldDuration = 150 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool

	// Mouse holds the mouse reports received since the last read, in order.
	Mouse []MouseEvent
	// Closed is set once the underlying reader failed (disconnect).
	Closed bool

	Pressed []byte
}

// MouseEvent is one SGR (mode 1006) mouse report. X and Y are 1-based
// terminal cells.
type MouseEvent struct {
	Button  int  // 0 left, 1 middle, 2 right, 3 none (motion without button)
	X, Y    int  // Cell column and row
	Press   bool // 'M' report; false for release ('m')
	Motion  bool // Drag or hover report
	Wheel   bool // Scroll wheel
	Release bool // Button released
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete escape sequence carried into the next read
	closed  bool
	now     func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:  make(chan byte, 256),
		now: time.Now,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports, and
// accumulates all pressed keys. Uses key state persistence so held keys stay
// pressed between terminal repeats.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := parse(s, buf, now)
	in.Closed = s.closed
	return in
}

func parse(s *Stream, buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys, mouse)
		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 >= len(buf) {
				s.pending = append(s.pending, buf[i:]...)
				break
			}
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case '<':
				ev, n, ok := parseSGRMouse(buf[i+3:])
				if n < 0 {
					// Sequence not complete yet.
					s.pending = append(s.pending, buf[i:]...)
					i = len(buf)
					continue
				}
				if ok {
					in.Mouse = append(in.Mouse, ev)
				}
				i += 2 + n
				continue
			}
		}

		// Single byte handling - update key state
		applyByteToState(&s.state, b, now)
		in.Pressed = append(in.Pressed, b)
	}

	in.Quit = now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Space = now.Sub(s.state.space) < keyHoldDuration
	in.Enter = now.Sub(s.state.enter) < keyHoldDuration
	in.Escape = now.Sub(s.state.escape) < keyHoldDuration
	return in
}

// parseSGRMouse parses "Cb;Cx;Cy" followed by 'M' or 'm' (the bytes after
// "ESC [ <"). n is the number of bytes consumed including the final byte,
// or -1 if the report is incomplete. ok is false for malformed reports.
func parseSGRMouse(b []byte) (ev MouseEvent, n int, ok bool) {
	var fields [3]int
	field, start := 0, 0
	for j := 0; j < len(b); j++ {
		c := b[j]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' || c == 'M' || c == 'm':
			if field > 2 {
				return ev, j + 1, false
			}
			v, err := strconv.Atoi(string(b[start:j]))
			if err != nil {
				return ev, j + 1, false
			}
			fields[field] = v
			field++
			start = j + 1
			if c == ';' {
				continue
			}
			if field != 3 {
				return ev, j + 1, false
			}
			cb := fields[0]
			ev = MouseEvent{
				Button:  cb & 3,
				X:       fields[1],
				Y:       fields[2],
				Press:   c == 'M',
				Release: c == 'm',
				Motion:  cb&32 != 0,
				Wheel:   cb&64 != 0,
			}
			return ev, j + 1, true
		default:
			return ev, j + 1, false
		}
	}
	return ev, -1, false
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	}
}
