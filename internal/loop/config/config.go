// Package config centralizes all tunable game parameters.
package config

import (
	"time"

	"github.com/tomz197/pterodash/internal/config"
	"github.com/tomz197/pterodash/internal/game"
)

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Max render resolution in terminal cells. Larger terminals get a centred,
// bordered play area.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Game over banner
const (
	GameOverBlinkFrequency = 2.0 // Hz
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// Browser snapshot stream
const (
	WebSnapshotRate = 30
	WebSnapshotTime = time.Second / WebSnapshotRate
)

// GameConfig returns the session tuning, with defaults overridden by
// PTERO_* environment variables.
func GameConfig() game.Config {
	cfg := game.DefaultConfig()

	cfg.Field.SpawnInterval = config.GetEnvDuration("PTERO_SPAWN_INTERVAL", cfg.Field.SpawnInterval)
	cfg.Field.Speed = config.GetEnvFloat("PTERO_ROCK_SPEED", cfg.Field.Speed)
	cfg.Field.SpawnDistance = config.GetEnvFloat("PTERO_SPAWN_DISTANCE", cfg.Field.SpawnDistance)
	cfg.Actor.Speed = config.GetEnvFloat("PTERO_ACTOR_SPEED", cfg.Actor.Speed)
	cfg.ScoreCarry = config.GetEnvBool("PTERO_SCORE_CARRY", cfg.ScoreCarry)
	cfg.Seed = int64(config.GetEnvInt("PTERO_SEED", int(cfg.Seed)))

	return cfg
}
