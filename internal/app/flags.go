package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim        string
	Level      string
	Scale      int
	TPS        int
	Seed       int64
	Collisions bool
	HUDWidth   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "tileworld",
		Level:    "levels/sokoban.yaml",
		Scale:    32,
		TPS:      60,
		Seed:     0,
		HUDWidth: 220,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.Level, "level", c.Level, "level file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for generated levels (0 uses the level's own)")
	fs.BoolVar(&c.Collisions, "collisions", c.Collisions, "enable the colliding phase")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "status panel width in pixels, 0 hides it")
}

// SimConfig returns the key/value map handed to the sim factory.
func (c *Config) SimConfig() map[string]string {
	return map[string]string{
		"level":      c.Level,
		"seed":       strconv.FormatInt(c.Seed, 10),
		"collisions": strconv.FormatBool(c.Collisions),
		"tps":        strconv.Itoa(c.TPS),
	}
}
