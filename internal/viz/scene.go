package viz

import (
	"math"

	"github.com/san-kum/pendulab/internal/lab"
	"github.com/san-kum/pendulab/internal/physics"
)

const (
	pivotTop      = 4
	sceneMargin   = 8
	rulerTick     = 0.1 // m
	protractorR   = 0.3 // m
	minTraceAlpha = 0.05
)

// scene maps lab coordinates onto a braille canvas. The pivot sits at the
// top center and the longest allowed pendulum just reaches the bottom.
type scene struct {
	canvas *Canvas
	cx, cy int
	scale  float64 // sub-pixels per meter
}

func newScene(c *Canvas) scene {
	pw, ph := c.PixelSize()
	return scene{
		canvas: c,
		cx:     pw / 2,
		cy:     pivotTop,
		scale:  float64(ph-sceneMargin) / physics.DefaultLengthRange.Max,
	}
}

// point is the sub-pixel at distance r meters from the pivot at angle theta.
func (s scene) point(r, theta float64) (int, int) {
	d := r * s.scale
	return s.cx + int(math.Round(d*math.Sin(theta))), s.cy + int(math.Round(d*math.Cos(theta)))
}

// bobRadius grows with the cube root of mass so the bob's volume tracks it.
func (s scene) bobRadius(mass float64) int {
	return max(1, int(math.Round(2*math.Cbrt(mass))))
}

func (s scene) draw(l *lab.Lab) {
	s.canvas.Clear()

	tools := l.Tools()
	if tools.Ruler {
		s.drawRuler()
	}
	for i, p := range l.ActivePendulums() {
		if tools.PeriodTrace {
			s.drawTrace(l, i)
		}
		if p.IsTickVisible() {
			s.drawProtractor(p)
		}
		s.drawPendulum(p)
	}
	s.canvas.FillCircle(s.cx, s.cy, 1)
}

func (s scene) drawPendulum(p *physics.Pendulum) {
	bx, by := s.point(p.Length(), p.Angle())
	s.canvas.DrawLine(s.cx, s.cy, bx, by)
	s.canvas.FillCircle(bx, by, s.bobRadius(p.Mass()))
}

// drawProtractor marks the vertical and the swept angle.
func (s scene) drawProtractor(p *physics.Pendulum) {
	bx, by := s.point(p.LengthRange().Max, 0)
	s.canvas.DrawDashed(s.cx, s.cy, bx, by, 3)
	s.canvas.DrawArc(s.cx, s.cy, protractorR*s.scale, 0, p.Angle())
}

// drawTrace thins the recorded path as the trace fades.
func (s scene) drawTrace(l *lab.Lab, i int) {
	tr := l.Trace(i)
	alpha := tr.Alpha()
	if alpha < minTraceAlpha {
		return
	}
	stride := max(1, int(math.Round(1/alpha)))
	length := l.Pendulum(i).Length()
	for j, pt := range tr.Points() {
		if j%stride != 0 {
			continue
		}
		x, y := s.point(length, pt.Angle)
		s.canvas.Set(x, y)
	}
}

// drawRuler is a vertical scale hanging left of the pivot, ticked every
// 10 cm with longer ticks every half meter.
func (s scene) drawRuler() {
	x := s.cx - int(physics.DefaultLengthRange.Max*s.scale/2)
	bottom := s.cy + int(physics.DefaultLengthRange.Max*s.scale)
	s.canvas.DrawDashed(x, s.cy, x, bottom, 2)

	ticks := int(math.Round(physics.DefaultLengthRange.Max / rulerTick))
	for k := 0; k <= ticks; k++ {
		y := s.cy + int(math.Round(float64(k)*rulerTick*s.scale))
		w := 1
		if k%5 == 0 {
			w = 3
		}
		s.canvas.DrawLine(x, y, x+w, y)
	}
}
