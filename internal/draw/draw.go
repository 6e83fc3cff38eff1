// Package draw renders to ANSI terminals: a colour half-block canvas plus
// cursor, mouse and chunked-output helpers.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a canvas palette entry. The zero value is transparent.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorPterodactyl
	ColorWing
	ColorRockNear
	ColorRockMid
	ColorRockFar
	ColorHUD
	ColorAlert
)

// ansi256 maps palette entries to xterm 256-colour indices.
var ansi256 = [...]uint8{
	ColorNone:        0,
	ColorWhite:       15,
	ColorPterodactyl: 208, // orange
	ColorWing:        172,
	ColorRockNear:    250,
	ColorRockMid:     244,
	ColorRockFar:     239,
	ColorHUD:         117,
	ColorAlert:       196,
}

// ANSI returns the xterm 256-colour index.
func (c Color) ANSI() uint8 {
	if int(c) >= len(ansi256) {
		return ansi256[ColorWhite]
	}
	return ansi256[c]
}

// RockShade picks a rock colour by distance from the camera: near rocks are
// bright, far ones fade into the background.
func RockShade(distance, farthest float64) Color {
	switch {
	case farthest <= 0 || distance < farthest/4:
		return ColorRockNear
	case distance < farthest/2:
		return ColorRockMid
	default:
		return ColorRockFar
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
