package period

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

type TraceState int

const (
	// TraceIdle: not recording.
	TraceIdle TraceState = iota
	// TraceArmed: waiting for a crossing to anchor the trace.
	TraceArmed
	// TraceRecording: following the swing, collecting peaks.
	TraceRecording
	// TraceFading: one full period drawn, fading out.
	TraceFading
)

func (s TraceState) String() string {
	switch s {
	case TraceArmed:
		return "armed"
	case TraceRecording:
		return "recording"
	case TraceFading:
		return "fading"
	}
	return "idle"
}

const (
	DefaultFadeFactor = 1.0
	DefaultFadeCutoff = 0.05
)

// Trace records one full swing of a pendulum: anchored at a crossing of the
// vertical, through both turning points and back to the anchoring crossing.
// Once complete it fades with a time constant of FadeFactor approximate
// periods and clears below FadeCutoff.
type Trace struct {
	FadeFactor float64
	FadeCutoff float64

	body      *physics.Pendulum
	state     TraceState
	anchor    bool // direction of the anchoring crossing
	peaks     []float64
	points    []Sample
	elapsed   float64
	age       float64
	alpha     float64
	repeating bool
	visible   bool

	completed   dynamo.Emitter[[]float64]
	unsubscribe []func()
}

func NewTrace(body *physics.Pendulum) *Trace {
	tr := &Trace{
		FadeFactor: DefaultFadeFactor,
		FadeCutoff: DefaultFadeCutoff,
		body:       body,
		peaks:      make([]float64, 0, 2),
	}
	tr.unsubscribe = []func(){
		body.OnCrossing(tr.onCrossing),
		body.OnPeak(tr.onPeak),
		body.OnStep(tr.onStep),
		body.OnReset(tr.rearm),
		body.OnUserMoved(tr.rearm),
	}
	return tr
}

func (tr *Trace) onCrossing(c physics.Crossing) {
	switch tr.state {
	case TraceArmed:
		tr.state = TraceRecording
		tr.anchor = c.Positive
		tr.elapsed = -c.Time
		tr.alpha = 1
	case TraceRecording:
		if len(tr.peaks) == 2 && c.Positive == tr.anchor {
			tr.state = TraceFading
			tr.age = -c.Time
			tr.completed.Emit(tr.Peaks())
		}
	}
}

func (tr *Trace) onPeak(p physics.Peak) {
	if tr.state == TraceRecording && len(tr.peaks) < 2 {
		tr.peaks = append(tr.peaks, p.Angle)
	}
}

func (tr *Trace) onStep(dt float64) {
	switch tr.state {
	case TraceRecording:
		tr.elapsed += dt
		if len(tr.points) >= DefaultMaxSamples {
			copy(tr.points, tr.points[1:])
			tr.points = tr.points[:len(tr.points)-1]
		}
		tr.points = append(tr.points, Sample{Time: tr.elapsed, Angle: tr.body.Angle()})
	case TraceFading:
		tr.age += dt
		tr.alpha = math.Exp(-math.Max(0, tr.age) / (tr.FadeFactor * tr.body.ApproximatePeriod()))
		if tr.alpha < tr.FadeCutoff {
			tr.clear()
			if tr.repeating {
				tr.state = TraceArmed
			} else {
				tr.state = TraceIdle
			}
		}
	}
}

func (tr *Trace) clear() {
	tr.peaks = tr.peaks[:0]
	tr.points = tr.points[:0]
	tr.elapsed = 0
	tr.age = 0
	tr.alpha = 0
}

// rearm drops whatever was drawn; an active trace starts over.
func (tr *Trace) rearm() {
	tr.clear()
	if tr.state != TraceIdle {
		tr.state = TraceArmed
	}
}

// Start arms the trace; it begins at the next crossing.
func (tr *Trace) Start() {
	tr.clear()
	tr.state = TraceArmed
}

func (tr *Trace) Stop() {
	tr.clear()
	tr.state = TraceIdle
}

func (tr *Trace) Close() {
	for _, unsub := range tr.unsubscribe {
		unsub()
	}
	tr.unsubscribe = nil
}

// OnComplete registers fn to receive the two turning angles of each
// completed trace.
func (tr *Trace) OnComplete(fn func(peaks []float64)) func() { return tr.completed.Subscribe(fn) }

func (tr *Trace) SetRepeating(repeating bool) { tr.repeating = repeating }
func (tr *Trace) SetVisible(visible bool)     { tr.visible = visible }
func (tr *Trace) IsRepeating() bool           { return tr.repeating }
func (tr *Trace) IsVisible() bool             { return tr.visible }
func (tr *Trace) State() TraceState           { return tr.state }

// Alpha is the drawing opacity: 1 while recording, decaying while fading.
func (tr *Trace) Alpha() float64 { return tr.alpha }

func (tr *Trace) Peaks() []float64 {
	out := make([]float64, len(tr.peaks))
	copy(out, tr.peaks)
	return out
}

func (tr *Trace) Points() []Sample {
	out := make([]Sample, len(tr.points))
	copy(out, tr.points)
	return out
}
