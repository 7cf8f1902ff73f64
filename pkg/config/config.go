// Package config loads the game configuration from YAML with defaults and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"liminal/pkg/engine/input"
	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/logger"
)

// Renderer backends
const (
	RendererTUI    = "tui"
	RendererEbiten = "ebiten"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of a run.
type Config struct {
	Logging  logger.Config         `yaml:"logging"`
	Door     entities.DoorSettings `yaml:"door"`
	Graph    GraphConfig           `yaml:"graph"`
	Player   PlayerConfig          `yaml:"player"`
	Renderer string                `yaml:"renderer"`
	Locale   LocaleConfig          `yaml:"locale"`

	// Templates is an optional path to a room template catalog.
	// Empty means the built-in catalog.
	Templates string `yaml:"templates"`

	// DumpDir is where graph dumps are written.
	DumpDir string `yaml:"dump_dir"`

	// Bindings maps action names (e.g. "judge_anomaly") to a single key code.
	Bindings map[string]string `yaml:"bindings"`
}

// GraphConfig tunes the room graph manager.
type GraphConfig struct {
	// GridResolution is the cell size used to key spawn positions.
	GridResolution float64 `yaml:"grid_resolution"`

	// OverlapRadius rejects a spawn this close to another live room.
	OverlapRadius float64 `yaml:"overlap_radius"`

	// AnomalyChance is the probability a stage room holds an anomaly.
	AnomalyChance float64 `yaml:"anomaly_chance"`

	// Seed fixes the anomaly rolls. 0 seeds from the clock.
	Seed int64 `yaml:"seed"`

	// Start is where the first room's entry is placed.
	Start PoseConfig `yaml:"start"`
}

// PoseConfig is a world pose in YAML form.
type PoseConfig struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

// Pose converts to a world pose
func (p PoseConfig) Pose() world.Pose {
	return world.At(p.X, p.Y, p.Z, p.Yaw)
}

// PlayerConfig tunes the kinematic walker.
type PlayerConfig struct {
	WalkSpeed  float64 `yaml:"walk_speed"`  // metres per step
	TurnSpeed  float64 `yaml:"turn_speed"`  // degrees per step
	Reach      float64 `yaml:"reach"`       // how far away a door can be grabbed
	PushStep   float64 `yaml:"push_step"`   // degrees per keyboard push
	StepPeriod float64 `yaml:"step_period"` // seconds simulated per frame
}

// LocaleConfig selects the message catalog.
type LocaleConfig struct {
	Path     string `yaml:"path"`
	Language string `yaml:"language"`
	Domain   string `yaml:"domain"`
}

// DefaultConfig returns a Config with the stock tuning.
func DefaultConfig() *Config {
	return &Config{
		Logging: logger.DefaultConfig(),
		Door:    entities.DefaultDoorSettings(),
		Graph: GraphConfig{
			GridResolution: 0.001,
			OverlapRadius:  2.0,
			AnomalyChance:  0.5,
		},
		Player: PlayerConfig{
			WalkSpeed:  0.5,
			TurnSpeed:  15,
			Reach:      1.5,
			PushStep:   15,
			StepPeriod: 1.0 / 30,
		},
		Renderer: RendererTUI,
		Locale: LocaleConfig{
			Path:     "locales",
			Language: "en",
			Domain:   "default",
		},
		DumpDir: "dumps",
	}
}

// LoadConfig loads configuration from a YAML file.
// A missing file yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from LIMINAL_* and LOG_* environment variables
func (c *Config) ApplyEnv() {
	if r := os.Getenv("LIMINAL_RENDERER"); r != "" {
		c.Renderer = r
	}
	if s := os.Getenv("LIMINAL_SEED"); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Graph.Seed = seed
		}
	}
	if t := os.Getenv("LIMINAL_TEMPLATES"); t != "" {
		c.Templates = t
	}
	if l := os.Getenv("LIMINAL_LANG"); l != "" {
		c.Locale.Language = l
	}
	c.Logging.ApplyEnv()
}

// Validate checks the values the game cannot start with
func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererTUI, RendererEbiten:
	default:
		return fmt.Errorf("%w: renderer %q (want %q or %q)", ErrInvalidConfig, c.Renderer, RendererTUI, RendererEbiten)
	}
	if c.Graph.GridResolution <= 0 {
		return fmt.Errorf("%w: grid_resolution must be positive", ErrInvalidConfig)
	}
	if c.Graph.OverlapRadius < 0 {
		return fmt.Errorf("%w: overlap_radius must not be negative", ErrInvalidConfig)
	}
	if c.Graph.AnomalyChance < 0 || c.Graph.AnomalyChance > 1 {
		return fmt.Errorf("%w: anomaly_chance %v out of [0, 1]", ErrInvalidConfig, c.Graph.AnomalyChance)
	}
	if c.Player.WalkSpeed <= 0 || c.Player.TurnSpeed <= 0 || c.Player.StepPeriod <= 0 {
		return fmt.Errorf("%w: player speeds must be positive", ErrInvalidConfig)
	}
	if err := c.Door.Validate(); err != nil {
		return fmt.Errorf("%w: door: %w", ErrInvalidConfig, err)
	}
	for name := range c.Bindings {
		if _, ok := input.ParseAction(name); !ok {
			return fmt.Errorf("%w: unknown action %q in bindings", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ApplyBindings installs the configured key overrides
func (c *Config) ApplyBindings() error {
	names := make([]string, 0, len(c.Bindings))
	for name := range c.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		action, ok := input.ParseAction(name)
		if !ok {
			return fmt.Errorf("%w: unknown action %q in bindings", ErrInvalidConfig, name)
		}
		input.SetSingleBinding(action, c.Bindings[name])
	}
	return nil
}
