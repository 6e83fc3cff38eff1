package client

import (
	"fmt"
	"time"

	"github.com/tomz197/pterodash/internal/draw"
	"github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/object"
)

// gameOverArt is the banner shown after a collision (figlet "small" font).
var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game over, inactivity or shutdown transitions, do a full terminal
	// clear so UI elements from the previous state don't persist on screen.
	if c.state.GameOver != c.state.wasGameOver ||
		c.state.isInactive != c.state.wasInactive ||
		c.state.Shutdown != c.state.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.wasGameOver = c.state.GameOver
		c.state.wasInactive = c.state.isInactive
		c.state.wasShutdown = c.state.Shutdown
	}

	c.canvas.Clear()
	if !c.state.Shutdown && !c.state.isInactive {
		c.renderer.Draw(c.canvas, c.handle.Snapshot())
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawPlayingHUD(termHeight)
	if c.state.GameOver {
		c.drawGameOver(centerX, centerY)
	}
}

// text writes s at (col, row) and marks the cells so the canvas repaints
// them once the text goes away.
func (c *Client) text(col, row int, color draw.Color, s string) {
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteColored(col, row, color, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// centered writes s horizontally centred on centerX.
func (c *Client) centered(centerX, row int, color draw.Color, s string) {
	c.text(centerX-len([]rune(s))/2, row, color, s)
}

// drawPlayingHUD draws the score and controls hint.
// The score is padded so a shorter value overwrites a longer one.
func (c *Client) drawPlayingHUD(termHeight int) {
	c.text(2, 1, draw.ColorHUD, fmt.Sprintf("Score: %-8d", c.state.Score))
	c.text(2, termHeight, draw.ColorHUD, "Arrows/WASD or mouse to fly   Q to quit")
}

// drawGameOver draws the blinking banner and restart prompt.
func (c *Client) drawGameOver(centerX, centerY int) {
	top := centerY - len(gameOverArt) - 1
	if object.ShouldRenderBlink(c.state.sinceOver+1/config.GameOverBlinkFrequency, config.GameOverBlinkFrequency) {
		for i, line := range gameOverArt {
			c.centered(centerX, top+i, draw.ColorAlert, line)
		}
	}

	c.centered(centerX, centerY+1, draw.ColorWhite, fmt.Sprintf("Score: %d", c.state.Score))
	c.centered(centerX, centerY+3, draw.ColorWhite, ">>  Click or press SPACE to restart  <<")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, draw.ColorAlert, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerX, centerY, draw.ColorWhite, msg)
	c.centered(centerX, centerY+2, draw.ColorWhite, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.centered(centerX, centerY-3, draw.ColorAlert, "SERVER SHUTTING DOWN")
	c.centered(centerX, centerY-1, draw.ColorWhite, "The server is restarting for maintenance.")
	c.centered(centerX, centerY, draw.ColorWhite, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerX, centerY+2, draw.ColorWhite, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerX, centerY+4, draw.ColorWhite, "Press Q to disconnect now")
}
