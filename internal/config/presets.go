package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"small": preset(func(c *Config) {
		c.Duration = 20
		c.Pendulums[0].Angle = 0.2
	}),
	"large": preset(func(c *Config) {
		c.Duration = 20
		c.Pendulums[0].Angle = 2.5
	}),
	"spinning": preset(func(c *Config) {
		c.Duration = 30
		c.Pendulums[0].Angle = 0.1
		c.Pendulums[0].AngularVelocity = 8
	}),
	"damped": preset(func(c *Config) {
		c.Duration = 30
		c.Friction = 0.05
		c.Pendulums[0].Angle = 1.0
	}),
	"moon": preset(func(c *Config) {
		c.Duration = 30
		c.Gravity = 1.62
	}),
	"pair": preset(func(c *Config) {
		c.Duration = 20
		c.NumberOfPendulums = 2
		c.Pendulums[0].Angle = 0.5
		c.Pendulums[1].Angle = 0.5
		c.Period.Repeat = true
	}),
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
