package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jwebster45206/dialogue-engine/pkg/anim"
	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
)

type Config struct {
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level // parsed from LogLevelName

	DialogueType   dialogue.Mode `env:"DIALOGUE_TYPE" envDefault:"classic"`
	InputGrace     time.Duration `env:"DIALOGUE_INPUT_GRACE" envDefault:"100ms"`
	AnimateOver    time.Duration `env:"ACTOR_ANIMATE_OVER" envDefault:"350ms"`
	Easing         string        `env:"ACTOR_EASING" envDefault:"smoothstep"`
	CharsPerSecond float64       `env:"REVEAL_CHARS_PER_SECOND" envDefault:"40"`

	SceneStartX float64 `env:"SCENE_START_X" envDefault:"-400"`
	SceneStartY float64 `env:"SCENE_START_Y" envDefault:"0"`
	SceneEndX   float64 `env:"SCENE_END_X" envDefault:"400"`
	SceneEndY   float64 `env:"SCENE_END_Y" envDefault:"0"`

	TickRate      int           `env:"TICK_RATE" envDefault:"30"`
	DataDir       string        `env:"DATA_DIR" envDefault:"./data"`
	RedisURL      string        `env:"REDIS_URL"`
	TranscriptTTL time.Duration `env:"TRANSCRIPT_TTL" envDefault:"24h"`

	easing anim.Easing
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	easing, err := anim.ParseEasing(cfg.Easing)
	if err != nil {
		return nil, fmt.Errorf("ACTOR_EASING: %w", err)
	}
	cfg.easing = easing

	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("TICK_RATE must be positive, got %d", cfg.TickRate)
	}
	if cfg.CharsPerSecond <= 0 {
		return nil, fmt.Errorf("REVEAL_CHARS_PER_SECOND must be positive, got %g", cfg.CharsPerSecond)
	}
	if cfg.InputGrace < 0 || cfg.AnimateOver < 0 {
		return nil, fmt.Errorf("durations must not be negative")
	}
	return cfg, nil
}

// TickInterval is the time between frames at TickRate.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// ManagerOptions converts the configuration to dialogue manager options.
func (c *Config) ManagerOptions() dialogue.Options {
	opts := dialogue.DefaultOptions()
	opts.Mode = c.DialogueType
	opts.InputGrace = c.InputGrace
	opts.CharsPerSecond = c.CharsPerSecond
	opts.SceneStart = anim.Vec2{X: c.SceneStartX, Y: c.SceneStartY}
	opts.SceneEnd = anim.Vec2{X: c.SceneEndX, Y: c.SceneEndY}
	opts.Actors.AnimateOver = c.AnimateOver
	if c.easing != nil {
		opts.Actors.Ease = c.easing
	}
	return opts
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
