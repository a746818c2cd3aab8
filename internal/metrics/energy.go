// Package metrics accumulates scalar summaries of a pendulum run.
package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

// Observer is a metric fed with the pendulum state after each step.
type Observer interface {
	dynamo.Metric
	Observe(s physics.Snapshot, t float64)
}

// Attach feeds every step of p to the observers, stamped with the time
// since attaching. The returned func detaches them.
func Attach(p *physics.Pendulum, observers ...Observer) func() {
	t := 0.0
	return p.OnStep(func(dt float64) {
		t += dt
		s := p.Snapshot()
		for _, o := range observers {
			o.Observe(s, t)
		}
	})
}

// Energy is the mean mechanical energy over the observed steps.
type Energy struct {
	name    string
	samples int
	sum     float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s physics.Snapshot, t float64) {
	e.sum += s.KineticEnergy + s.PotentialEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of the total energy, thermal
// included, from the first observed step. Friction moves energy between
// terms but should not change the total, so any drift is integration error.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s physics.Snapshot, t float64) {
	energy := s.TotalEnergy

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the total energy at the last observed step.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// ThermalMonotonic counts steps where the thermal energy went down. It
// should stay at zero.
type ThermalMonotonic struct {
	name      string
	last      float64
	samples   int
	decreases int
}

func NewThermalMonotonic() *ThermalMonotonic {
	return &ThermalMonotonic{name: "thermal_decreases"}
}

func (m *ThermalMonotonic) Name() string { return m.name }

func (m *ThermalMonotonic) Observe(s physics.Snapshot, t float64) {
	if m.samples > 0 && s.ThermalEnergy < m.last {
		m.decreases++
	}
	m.last = s.ThermalEnergy
	m.samples++
}

func (m *ThermalMonotonic) Value() float64 { return float64(m.decreases) }

func (m *ThermalMonotonic) Reset() {
	m.last = 0
	m.samples = 0
	m.decreases = 0
}
