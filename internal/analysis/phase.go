package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/pendulab/internal/physics"
)

// PhasePoint is one (θ, ω) sample.
type PhasePoint struct {
	X, Y float64
}

// PhasePortrait2D holds a pendulum trajectory in phase space, angle on X
// and angular velocity on Y.
type PhasePortrait2D struct {
	Points []PhasePoint
}

// GeneratePhasePortrait steps p for duration seconds and records its
// phase-space trajectory after each step. The pendulum is advanced in place.
func GeneratePhasePortrait(p *physics.Pendulum, dt, duration float64) *PhasePortrait2D {
	if dt <= 0 || duration <= 0 {
		return nil
	}

	steps := int(math.Round(duration / dt))
	portrait := &PhasePortrait2D{
		Points: make([]PhasePoint, 0, steps),
	}

	for i := 0; i < steps; i++ {
		p.Step(dt)
		portrait.Points = append(portrait.Points, PhasePoint{
			X: p.Angle(),
			Y: p.AngularVelocity(),
		})
	}

	return portrait
}

type span struct{ lo, hi float64 }

func (s span) pad(f float64) span {
	w := s.hi - s.lo
	if w == 0 {
		w = 1
	}
	return span{s.lo - w*f, s.hi + w*f}
}

// cell maps v onto 0..n-1.
func (s span) cell(v float64, n int) int {
	return int((v - s.lo) / (s.hi - s.lo) * float64(n-1))
}

// PhasePortraitToASCII plots the trajectory on a width x height character
// grid with axes through the origin. The final point is drawn as 'o'.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	first := portrait.Points[0]
	xs, ys := span{first.X, first.X}, span{first.Y, first.Y}
	for _, p := range portrait.Points {
		xs.lo, xs.hi = min(xs.lo, p.X), max(xs.hi, p.X)
		ys.lo, ys.hi = min(ys.lo, p.Y), max(ys.hi, p.Y)
	}
	xs, ys = xs.pad(0.1), ys.pad(0.1)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if xs.lo <= 0 && xs.hi >= 0 {
		col := xs.cell(0, width)
		for row := range grid {
			grid[row][col] = '│'
		}
	}
	if ys.lo <= 0 && ys.hi >= 0 {
		row := height - 1 - ys.cell(0, height)
		for col := range grid[row] {
			if grid[row][col] == '│' {
				grid[row][col] = '┼'
			} else {
				grid[row][col] = '─'
			}
		}
	}

	for i, p := range portrait.Points {
		col := xs.cell(p.X, width)
		row := height - 1 - ys.cell(p.Y, height)
		grid[row][col] = '•'
		if i == len(portrait.Points)-1 {
			grid[row][col] = 'o'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
