package config

import (
	"testing"
	"time"

	"github.com/tomz197/pterodash/internal/game"
)

func TestGameConfigDefaults(t *testing.T) {
	if got, want := GameConfig(), game.DefaultConfig(); got != want {
		t.Fatalf("GameConfig() = %+v, want defaults %+v", got, want)
	}
}

func TestGameConfigEnvOverrides(t *testing.T) {
	t.Setenv("PTERO_SPAWN_INTERVAL", "1.5s")
	t.Setenv("PTERO_ROCK_SPEED", "22.5")
	t.Setenv("PTERO_SCORE_CARRY", "true")
	t.Setenv("PTERO_SEED", "42")
	t.Setenv("PTERO_ACTOR_SPEED", "not-a-number")

	cfg := GameConfig()
	if cfg.Field.SpawnInterval != 1500*time.Millisecond {
		t.Errorf("SpawnInterval = %v", cfg.Field.SpawnInterval)
	}
	if cfg.Field.Speed != 22.5 {
		t.Errorf("rock Speed = %v", cfg.Field.Speed)
	}
	if !cfg.ScoreCarry {
		t.Error("ScoreCarry not enabled")
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d", cfg.Seed)
	}
	if cfg.Actor.Speed != game.DefaultConfig().Actor.Speed {
		t.Errorf("unparsable actor speed should keep the default, got %v", cfg.Actor.Speed)
	}
}
