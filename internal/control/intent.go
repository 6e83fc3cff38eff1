// Package control turns pointer and touch input into directional intents.
//
// The viewport is split into a 3x3 grid of thirds. The row of the pointer
// selects up/none/down, the column selects left/none/right.
package control

// Intent is the directional input for the current frame.
// At most one flag of each axis pair is set.
type Intent struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Clear resets all four flags.
func (i *Intent) Clear() {
	*i = Intent{}
}

// Vertical returns +1 for up, -1 for down and 0 for neither.
func (i Intent) Vertical() int {
	switch {
	case i.Up:
		return 1
	case i.Down:
		return -1
	}
	return 0
}

// Horizontal returns +1 for right, -1 for left and 0 for neither.
func (i Intent) Horizontal() int {
	switch {
	case i.Right:
		return 1
	case i.Left:
		return -1
	}
	return 0
}

// IsZero reports whether no direction is requested.
func (i Intent) IsZero() bool {
	return i == Intent{}
}

// MapPointer maps a viewport-relative coordinate to an intent.
// Coordinates outside the viewport are not clamped; they land in whichever
// third they numerically fall into. The comparisons are strict on both
// sides, so y == height/3 is not "up" and y == height-height/3 is not "down".
func MapPointer(x, y, width, height float64) Intent {
	thirdWidth := width / 3
	thirdHeight := height / 3

	var intent Intent

	if y < thirdHeight {
		intent.Up = true
	} else if y > height-thirdHeight {
		intent.Down = true
	}

	if x < thirdWidth {
		intent.Left = true
	} else if x > width-thirdWidth {
		intent.Right = true
	}

	return intent
}
