package metrics

import "github.com/san-kum/pendulab/internal/physics"

// CrossingCounter counts crossings of the vertical and keeps their times,
// measured from when the counter was bound.
type CrossingCounter struct {
	name     string
	now      float64
	times    []float64
	positive int
	unsub    []func()
}

// NewCrossingCounter starts counting the crossings of p.
func NewCrossingCounter(p *physics.Pendulum) *CrossingCounter {
	c := &CrossingCounter{name: "crossings"}
	c.unsub = []func(){
		p.OnCrossing(func(x physics.Crossing) {
			c.times = append(c.times, c.now+x.Time)
			if x.Positive {
				c.positive++
			}
		}),
		p.OnStep(func(dt float64) { c.now += dt }),
	}
	return c
}

func (c *CrossingCounter) Name() string   { return c.name }
func (c *CrossingCounter) Value() float64 { return float64(len(c.times)) }
func (c *CrossingCounter) Positive() int  { return c.positive }

// Times returns the crossing timestamps in order.
func (c *CrossingCounter) Times() []float64 {
	out := make([]float64, len(c.times))
	copy(out, c.times)
	return out
}

func (c *CrossingCounter) Reset() {
	c.now = 0
	c.times = c.times[:0]
	c.positive = 0
}

// Close stops counting.
func (c *CrossingCounter) Close() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
}
