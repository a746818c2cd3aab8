package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendulab/internal/physics"
)

const (
	barFPS       = 60
	barFrequency = 6.0
	barDamping   = 1.0
	barWidth     = 18
)

// Energy bar slots, in display order.
const (
	barKinetic = iota
	barPotential
	barThermal
	barTotal
	barCount
)

var barNames = [barCount]string{"KE", "PE", "Thermal", "Total"}

// energyBars eases each displayed energy toward its target with a
// critically damped spring so the bars move smoothly at frame rate.
type energyBars struct {
	spring harmonica.Spring
	pos    [barCount]float64
	vel    [barCount]float64
	target [barCount]float64
}

func newEnergyBars() *energyBars {
	return &energyBars{spring: harmonica.NewSpring(harmonica.FPS(barFPS), barFrequency, barDamping)}
}

func energyTargets(p *physics.Pendulum) [barCount]float64 {
	return [barCount]float64{
		barKinetic:   p.KineticEnergy(),
		barPotential: p.PotentialEnergy(),
		barThermal:   p.ThermalEnergy(),
		barTotal:     p.TotalEnergy(),
	}
}

// update advances every spring one frame toward the pendulum's energies.
func (b *energyBars) update(p *physics.Pendulum) {
	b.target = energyTargets(p)
	for i := range b.pos {
		b.pos[i], b.vel[i] = b.spring.Update(b.pos[i], b.vel[i], b.target[i])
	}
}

// snap jumps straight to the pendulum's energies.
func (b *energyBars) snap(p *physics.Pendulum) {
	b.target = energyTargets(p)
	b.pos = b.target
	b.vel = [barCount]float64{}
}

// fractions scales the displayed values to the total energy, the largest
// quantity the bars can show.
func (b *energyBars) fractions() [barCount]float64 {
	var out [barCount]float64
	scale := b.target[barTotal]
	if scale <= 0 {
		return out
	}
	for i, v := range b.pos {
		out[i] = max(0, min(1, v/scale))
	}
	return out
}

func (b *energyBars) render(t Theme, st styles) string {
	fill := [barCount]lipgloss.Color{t.Kinetic, t.Potential, t.Thermal, t.Total}

	var s strings.Builder
	for i, f := range b.fractions() {
		s.WriteString(st.label.Render(barNames[i]))
		s.WriteString(Bar(f, barWidth, lipgloss.NewStyle().Foreground(fill[i])))
		s.WriteString(st.value.Render(fmt.Sprintf(" %6.3f J", b.target[i])))
		s.WriteByte('\n')
	}
	return s.String()
}
