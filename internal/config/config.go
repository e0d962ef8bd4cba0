// Package config loads match, director and balance settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

// Config is the root of a match configuration file.
type Config struct {
	Match    Match    `yaml:"match"`
	Director Director `yaml:"director"`
	Balance  Balance  `yaml:"balance"`
}

// Match holds arena and pacing settings.
type Match struct {
	LaneCount   int     `yaml:"lanes"`
	MaxSec      float64 `yaml:"max_sec"`
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	Seed        int64   `yaml:"seed"`
	TickRate    int     `yaml:"tick_rate"`
}

// Director configures the enemy spawn director.
type Director struct {
	Mode    string `yaml:"mode"` // ai1 | ai2
	Enabled bool   `yaml:"enabled"`
}

// Balance mirrors game.Balance with per-tier lists (index 0 is tier 1).
type Balance struct {
	Score     []float64 `yaml:"score"`
	Damage    []float64 `yaml:"damage"`
	Range     []float64 `yaml:"range"`
	MoveSpeed []float64 `yaml:"move_speed"`
	BaseHP    float64   `yaml:"base_hp"`
	Radar     float64   `yaml:"radar"`
	Radius    float64   `yaml:"radius"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Default returns the reference configuration.
func Default() *Config {
	b := game.DefaultBalance()
	return &Config{
		Match: Match{
			LaneCount:   3,
			MaxSec:      b.MatchSec,
			ArenaWidth:  game.DefaultArenaWidth,
			ArenaHeight: game.DefaultArenaHeight,
			Seed:        1,
			TickRate:    60,
		},
		Director: Director{Mode: "ai1", Enabled: true},
		Balance: Balance{
			Score:     b.ScoreByTier[:],
			Damage:    b.DamageByTier[:],
			Range:     b.RangeByTier[:],
			MoveSpeed: b.MoveSpeedByTier[:],
			BaseHP:    b.BaseHP,
			Radar:     b.Radar,
			Radius:    b.Radius,
		},
	}
}

// Load reads and validates a YAML file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and table shapes.
func (c *Config) Validate() error {
	m := c.Match
	switch {
	case m.LaneCount < 1:
		return fmt.Errorf("%w: lanes must be >= 1, got %d", ErrInvalid, m.LaneCount)
	case m.MaxSec <= 0:
		return fmt.Errorf("%w: max_sec must be positive, got %g", ErrInvalid, m.MaxSec)
	case m.ArenaWidth <= 0 || m.ArenaHeight <= 0:
		return fmt.Errorf("%w: arena %gx%g", ErrInvalid, m.ArenaWidth, m.ArenaHeight)
	case m.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, m.TickRate)
	}
	if c.Director.Mode != "ai1" && c.Director.Mode != "ai2" {
		return fmt.Errorf("%w: director mode %q (want ai1 or ai2)", ErrInvalid, c.Director.Mode)
	}

	tables := []struct {
		name string
		vals []float64
	}{
		{"score", c.Balance.Score},
		{"damage", c.Balance.Damage},
		{"range", c.Balance.Range},
		{"move_speed", c.Balance.MoveSpeed},
	}
	for _, t := range tables {
		if len(t.vals) != game.MaxTier {
			return fmt.Errorf("%w: balance.%s needs %d entries, got %d", ErrInvalid, t.name, game.MaxTier, len(t.vals))
		}
		for i, v := range t.vals {
			if v < 0 {
				return fmt.Errorf("%w: balance.%s[%d] is negative", ErrInvalid, t.name, i)
			}
		}
	}
	if c.Balance.BaseHP <= 0 || c.Balance.Radar <= 0 || c.Balance.Radius <= 0 {
		return fmt.Errorf("%w: base_hp, radar and radius must be positive", ErrInvalid)
	}
	return nil
}

// GameBalance converts the balance section into simulation tables.
func (c *Config) GameBalance() *game.Balance {
	b := game.DefaultBalance()
	copy(b.ScoreByTier[:], c.Balance.Score)
	copy(b.DamageByTier[:], c.Balance.Damage)
	copy(b.RangeByTier[:], c.Balance.Range)
	copy(b.MoveSpeedByTier[:], c.Balance.MoveSpeed)
	b.BaseHP = c.Balance.BaseHP
	b.MatchSec = c.Match.MaxSec
	b.Radar = c.Balance.Radar
	b.Radius = c.Balance.Radius
	return b
}

// DirectorMode returns the parsed director mode.
func (c *Config) DirectorMode() game.DirectorMode {
	return game.ParseDirectorMode(c.Director.Mode)
}

// TickDT is the fixed simulation step in seconds.
func (c *Config) TickDT() float64 {
	return 1 / float64(c.Match.TickRate)
}
