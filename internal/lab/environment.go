package lab

import (
	"fmt"
	"strings"

	"github.com/san-kum/pendulab/internal/dynamo"
)

var (
	GravityRange  = dynamo.Range{Min: 0, Max: 25}
	FrictionRange = dynamo.Range{Min: 0, Max: 0.115}
)

// GravityBody is a named gravitational acceleration.
type GravityBody struct {
	Name    string
	Gravity float64
}

const CustomGravity = "custom"

var GravityBodies = []GravityBody{
	{Name: "earth", Gravity: 9.81},
	{Name: "moon", Gravity: 1.62},
	{Name: "jupiter", Gravity: 24.79},
	{Name: "planet-x", Gravity: 14.2},
}

// LookupGravityBody finds a body by case-insensitive name.
func LookupGravityBody(name string) (GravityBody, error) {
	for _, b := range GravityBodies {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return GravityBody{}, fmt.Errorf("%w: gravity body %q", dynamo.ErrUnknownPreset, name)
}

// Environment holds the shared gravity and friction coefficient. Pendulums
// read it at every step.
type Environment struct {
	gravity  float64
	friction float64
	body     string
}

func NewEnvironment(gravity, friction float64) *Environment {
	e := &Environment{friction: friction}
	e.setGravity(gravity)
	return e
}

func (e *Environment) Gravity() float64  { return e.gravity }
func (e *Environment) Friction() float64 { return e.friction }

// Body is the name of the gravity body matching the current gravity, or
// CustomGravity.
func (e *Environment) Body() string { return e.body }

func (e *Environment) setGravity(g float64) {
	e.gravity = g
	e.body = CustomGravity
	for _, b := range GravityBodies {
		if b.Gravity == g {
			e.body = b.Name
			return
		}
	}
}
