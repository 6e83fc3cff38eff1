package game

// HUD is the score board and game-over banner of a front-end.
type HUD interface {
	SetScore(score int)
	SetGameOverVisible(visible bool)
}

// Diagnostics receives debug traces. *log.Logger from charmbracelet/log
// satisfies it.
type Diagnostics interface {
	Debug(msg interface{}, keyvals ...interface{})
}

type nopHUD struct{}

func (nopHUD) SetScore(int) {}
func (nopHUD) SetGameOverVisible(bool) {}

type nopDiagnostics struct{}

func (nopDiagnostics) Debug(interface{}, ...interface{}) {}

// HUDFuncs adapts plain functions to HUD. Nil fields are ignored.
type HUDFuncs struct {
	Score    func(score int)
	GameOver func(visible bool)
}

func (h HUDFuncs) SetScore(score int) {
	if h.Score != nil {
		h.Score(score)
	}
}

func (h HUDFuncs) SetGameOverVisible(visible bool) {
	if h.GameOver != nil {
		h.GameOver(visible)
	}
}
