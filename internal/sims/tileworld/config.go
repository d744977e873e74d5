package tileworld

import "strconv"

// Config controls which level the sim plays and how rounds are paced.
type Config struct {
	Level string
	Seed  int64

	// Collisions enables the Colliding phase.
	Collisions bool

	// TPS is the host frame rate Step assumes.
	TPS int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Level: "levels/sokoban.yaml",
		TPS:   60,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["level"]; ok && v != "" {
		c.Level = v
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["collisions"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Collisions = parsed
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	return c
}
