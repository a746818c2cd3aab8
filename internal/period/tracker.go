// Package period measures pendulum periods from crossing events and keeps
// the fading period trace drawn over a swinging pendulum.
package period

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

// Direction selects which crossings of the vertical count. One direction
// is seen once per full period.
type Direction int

const (
	PositiveGoing Direction = iota
	NegativeGoing
)

func (d Direction) String() string {
	if d == NegativeGoing {
		return "negative"
	}
	return "positive"
}

// ParseDirection accepts "positive" or "negative"; empty means positive.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "positive", "+":
		return PositiveGoing, nil
	case "negative", "-":
		return NegativeGoing, nil
	}
	return PositiveGoing, fmt.Errorf("%w: crossing direction %q", dynamo.ErrParameterBounds, s)
}

func (d Direction) matches(c physics.Crossing) bool {
	return c.Positive == (d == PositiveGoing)
}

// Sample is one point of a recorded swing: seconds since the window (or
// trace) began and the pendulum angle at that time.
type Sample struct {
	Time  float64
	Angle float64
}

const DefaultMaxSamples = 1024

// Tracker times the interval between qualifying crossings of one of its
// pendulums.
type Tracker struct {
	bodies    []*physics.Pendulum
	active    int
	direction Direction

	// elapsed is measured from the crossing that opened the window and is
	// advanced at each step event, so inside a step it can briefly be
	// negative by the crossing offset.
	elapsed float64
	period  float64
	open    bool

	running   bool
	repeating bool
	visible   bool

	samples    []Sample
	maxSamples int

	periods     dynamo.Emitter[float64]
	unsubscribe []func()
}

// NewTracker binds a tracker to one or two pendulums. The first is tracked
// initially.
func NewTracker(bodies ...*physics.Pendulum) *Tracker {
	t := &Tracker{
		bodies:     bodies,
		maxSamples: DefaultMaxSamples,
	}
	for i, b := range bodies {
		idx := i
		t.unsubscribe = append(t.unsubscribe,
			b.OnCrossing(func(c physics.Crossing) { t.onCrossing(idx, c) }),
			b.OnStep(func(dt float64) { t.onStep(idx, dt) }),
			b.OnReset(func() { t.restart(idx) }),
			b.OnUserMoved(func() { t.restart(idx) }),
		)
	}
	return t
}

func (t *Tracker) onCrossing(idx int, c physics.Crossing) {
	if idx != t.active || !t.running || !t.direction.matches(c) {
		return
	}

	if !t.open {
		t.open = true
		t.elapsed = -c.Time
		t.samples = t.samples[:0]
		return
	}

	t.period = t.elapsed + c.Time
	t.periods.Emit(t.period)

	if t.repeating {
		t.elapsed = -c.Time
		t.samples = t.samples[:0]
		return
	}
	t.running = false
	t.open = false
	t.elapsed = t.period
}

func (t *Tracker) onStep(idx int, dt float64) {
	if idx != t.active || !t.running || !t.open {
		return
	}
	t.elapsed += dt

	if len(t.samples) >= t.maxSamples {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:len(t.samples)-1]
	}
	t.samples = append(t.samples, Sample{Time: t.elapsed, Angle: t.bodies[idx].Angle()})
}

// restart drops a half-measured window when the tracked pendulum is reset
// or dragged; a running tracker waits for the next qualifying crossing.
func (t *Tracker) restart(idx int) {
	if idx != t.active {
		return
	}
	t.open = false
	t.samples = t.samples[:0]
	if t.running {
		t.elapsed = 0
	}
}

// Start arms a new measurement. The window opens at the next qualifying
// crossing.
func (t *Tracker) Start() {
	t.running = true
	t.open = false
	t.elapsed = 0
	t.samples = t.samples[:0]
}

// Stop halts measurement and holds the current readout.
func (t *Tracker) Stop() {
	t.running = false
	t.open = false
	t.elapsed = math.Max(0, t.elapsed)
}

func (t *Tracker) SetRunning(running bool) {
	if running == t.running {
		return
	}
	if running {
		t.Start()
		return
	}
	t.Stop()
}

// Select switches the tracked pendulum and discards the current window.
func (t *Tracker) Select(idx int) error {
	if idx < 0 || idx >= len(t.bodies) {
		return fmt.Errorf("%w: index %d of %d", dynamo.ErrNoPendulum, idx, len(t.bodies))
	}
	if idx == t.active {
		return nil
	}
	t.active = idx
	t.open = false
	t.elapsed = 0
	t.samples = t.samples[:0]
	return nil
}

// Reset stops the tracker and clears the readout, the last period and the
// samples. Repeat mode, direction and visibility are kept.
func (t *Tracker) Reset() {
	t.running = false
	t.open = false
	t.elapsed = 0
	t.period = 0
	t.samples = t.samples[:0]
}

// Close detaches the tracker from its pendulums.
func (t *Tracker) Close() {
	for _, unsub := range t.unsubscribe {
		unsub()
	}
	t.unsubscribe = nil
}

// OnPeriod registers fn to receive every completed period measurement.
func (t *Tracker) OnPeriod(fn func(period float64)) func() { return t.periods.Subscribe(fn) }

func (t *Tracker) SetRepeating(repeating bool) { t.repeating = repeating }
func (t *Tracker) SetVisible(visible bool)     { t.visible = visible }
func (t *Tracker) SetDirection(d Direction)    { t.direction = d }
func (t *Tracker) SetMaxSamples(n int)         { t.maxSamples = max(1, n) }
func (t *Tracker) IsRunning() bool             { return t.running }
func (t *Tracker) IsRepeating() bool           { return t.repeating }
func (t *Tracker) IsVisible() bool             { return t.visible }
func (t *Tracker) IsMeasuring() bool           { return t.open }
func (t *Tracker) Active() int                 { return t.active }
func (t *Tracker) Direction() Direction        { return t.direction }
func (t *Tracker) Period() float64             { return t.period }
func (t *Tracker) Pendulum() *physics.Pendulum { return t.bodies[t.active] }

// ElapsedTime is the readout: time since the window opened while
// measuring, the held value when stopped, zero while waiting for the
// first crossing.
func (t *Tracker) ElapsedTime() float64 {
	return math.Max(0, t.elapsed)
}

// Samples returns a copy of the angles recorded in the current window.
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}
