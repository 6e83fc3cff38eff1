package game

// State is the session's top-level state.
type State int

const (
	Running  State = iota // simulation advancing
	GameOver              // frozen until the next pointer-down
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
