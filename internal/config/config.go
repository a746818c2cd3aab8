package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/lab"
	"github.com/san-kum/pendulab/internal/period"
	"github.com/san-kum/pendulab/internal/physics"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultTheta    = 0.5
	DefaultGravity  = 9.81
)

type Config struct {
	Gravity           float64          `yaml:"gravity"`
	Friction          float64          `yaml:"friction"`
	Dt                float64          `yaml:"dt"`
	Duration          float64          `yaml:"duration"`
	TimeSpeed         string           `yaml:"time_speed"`
	Integrator        string           `yaml:"integrator"`
	NumberOfPendulums int              `yaml:"number_of_pendulums"`
	Pendulums         []PendulumConfig `yaml:"pendulums"`
	Period            PeriodConfig     `yaml:"period"`
}

type PendulumConfig struct {
	Mass            float64 `yaml:"mass"`
	Length          float64 `yaml:"length"`
	Angle           float64 `yaml:"angle"`
	AngularVelocity float64 `yaml:"angular_velocity"`
	Color           string  `yaml:"color"`
}

type PeriodConfig struct {
	Repeat    bool   `yaml:"repeat"`
	Direction string `yaml:"direction"`
	// Pendulum is 1-based, as shown on screen.
	Pendulum int `yaml:"pendulum"`
}

func DefaultConfig() *Config {
	defaults := lab.DefaultOptions()
	cfg := &Config{
		Gravity:           DefaultGravity,
		Dt:                DefaultDt,
		Duration:          DefaultDuration,
		TimeSpeed:         lab.NormalSpeed.String(),
		Integrator:        "rk4",
		NumberOfPendulums: 1,
		Period: PeriodConfig{
			Direction: period.PositiveGoing.String(),
			Pendulum:  1,
		},
	}
	for _, p := range defaults.Pendulums {
		cfg.Pendulums = append(cfg.Pendulums, PendulumConfig{
			Mass:   p.Mass,
			Length: p.Length,
			Angle:  DefaultTheta,
			Color:  p.Color,
		})
	}
	return cfg
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Pendulums = append([]PendulumConfig(nil), c.Pendulums...)
	return &out
}

// Load reads a yaml file over the defaults. Fields missing from the file
// keep their default values; a pendulums list replaces the default list.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func outOfRange(name string, v float64, r dynamo.Range) error {
	return fmt.Errorf("%w: %s %g not in [%g, %g]", dynamo.ErrParameterBounds, name, v, r.Min, r.Max)
}

// Validate checks every value against the ranges the lab accepts.
func (c *Config) Validate() error {
	if !finite(c.Dt) || c.Dt <= 0 || c.Dt > lab.MaxStep {
		return fmt.Errorf("%w: dt must be in (0, %g], got %g", dynamo.ErrParameterBounds, lab.MaxStep, c.Dt)
	}
	if !finite(c.Duration) || c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if !lab.GravityRange.Contains(c.Gravity) {
		return outOfRange("gravity", c.Gravity, lab.GravityRange)
	}
	if !lab.FrictionRange.Contains(c.Friction) {
		return outOfRange("friction", c.Friction, lab.FrictionRange)
	}
	if _, err := lab.ParseTimeSpeed(c.TimeSpeed); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if c.NumberOfPendulums < 1 || c.NumberOfPendulums > lab.MaxPendulums {
		return fmt.Errorf("%w: number_of_pendulums must be 1 or 2, got %d", dynamo.ErrParameterBounds, c.NumberOfPendulums)
	}
	if len(c.Pendulums) < c.NumberOfPendulums {
		return fmt.Errorf("%w: %d pendulums configured, %d requested", dynamo.ErrParameterBounds, len(c.Pendulums), c.NumberOfPendulums)
	}
	if len(c.Pendulums) > lab.MaxPendulums {
		return fmt.Errorf("%w: at most %d pendulums, got %d", dynamo.ErrParameterBounds, lab.MaxPendulums, len(c.Pendulums))
	}
	for i, p := range c.Pendulums {
		if !physics.DefaultMassRange.Contains(p.Mass) {
			return outOfRange(fmt.Sprintf("pendulums[%d].mass", i), p.Mass, physics.DefaultMassRange)
		}
		if !physics.DefaultLengthRange.Contains(p.Length) {
			return outOfRange(fmt.Sprintf("pendulums[%d].length", i), p.Length, physics.DefaultLengthRange)
		}
		if !finite(p.Angle) || !finite(p.AngularVelocity) {
			return fmt.Errorf("%w: pendulums[%d] has a non-finite angle or angular velocity", dynamo.ErrParameterBounds, i)
		}
	}
	if _, err := period.ParseDirection(c.Period.Direction); err != nil {
		return err
	}
	if c.Period.Pendulum < 1 || c.Period.Pendulum > c.NumberOfPendulums {
		return fmt.Errorf("%w: period.pendulum %d is not in play", dynamo.ErrNoPendulum, c.Period.Pendulum)
	}
	return nil
}

// LabOptions converts a validated config into lab options. Each pendulum
// gets its own integrator instance.
func (c *Config) LabOptions() (lab.Options, error) {
	opts := lab.DefaultOptions()
	opts.Gravity = c.Gravity
	opts.Friction = c.Friction
	opts.NumberOfPendulums = c.NumberOfPendulums

	for i, p := range c.Pendulums {
		integ, err := integrators.New(c.Integrator)
		if err != nil {
			return lab.Options{}, err
		}
		po := &opts.Pendulums[i]
		po.Mass = p.Mass
		po.Length = p.Length
		po.Angle = p.Angle
		po.AngularVelocity = p.AngularVelocity
		po.Integrator = integ
		if p.Color != "" {
			po.Color = p.Color
		}
	}
	return opts, nil
}

// NewLab validates the config and builds a lab with its time speed and
// period timer settings applied.
func (c *Config) NewLab() (*lab.Lab, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.LabOptions()
	if err != nil {
		return nil, err
	}
	l := lab.New(opts)

	speed, _ := lab.ParseTimeSpeed(c.TimeSpeed)
	l.SetTimeSpeed(speed)

	direction, _ := period.ParseDirection(c.Period.Direction)
	tracker := l.Tracker()
	tracker.SetDirection(direction)
	tracker.SetRepeating(c.Period.Repeat)
	if err := l.SelectPeriodPendulum(c.Period.Pendulum - 1); err != nil {
		return nil, err
	}
	return l, nil
}
