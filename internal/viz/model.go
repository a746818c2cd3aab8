package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendulab/internal/lab"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300

	dragStep     = 0.05
	lengthStep   = 0.1
	massStep     = 0.1
	frictionStep = 0.005
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the interactive lab: a braille drawing of the pendulums next to
// a panel of readouts.
type Model struct {
	lab       *lab.Lab
	canvas    *Canvas
	theme     Theme
	styles    styles
	bars      [lab.MaxPendulums]*energyBars
	kinetic   [lab.MaxPendulums][]float64
	potential [lab.MaxPendulums][]float64
	selected  int
	lastTick  time.Time
	showHelp  bool
}

func NewModel(l *lab.Lab) Model {
	m := Model{
		lab:    l,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		theme:  ThemeLab,
		styles: newStyles(ThemeLab),
	}
	for i := range m.bars {
		m.bars[i] = newEnergyBars()
		if p := l.Pendulum(i); p != nil {
			m.bars[i].snap(p)
		}
	}
	return m
}

// Run starts the full-screen program and blocks until the user quits.
func Run(l *lab.Lab) error {
	_, err := tea.NewProgram(NewModel(l), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.handleKey(msg.String())
	case TickMsg:
		now := time.Time(msg)
		dt := lab.FrameDuration
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		m.advance(dt)
		return m, tick()
	}
	return m, nil
}

// advance steps the lab and records the energy readouts.
func (m *Model) advance(dt float64) {
	m.lab.Step(dt)
	for i, p := range m.lab.ActivePendulums() {
		m.bars[i].update(p)
		m.kinetic[i] = pushHistory(m.kinetic[i], p.KineticEnergy())
		m.potential[i] = pushHistory(m.potential[i], p.PotentialEnergy())
	}
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) clearHistory() {
	for i := range m.kinetic {
		m.kinetic[i] = m.kinetic[i][:0]
		m.potential[i] = m.potential[i][:0]
		m.bars[i].snap(m.lab.Pendulum(i))
	}
}

func (m *Model) handleKey(key string) {
	l := m.lab
	p := l.Pendulum(m.selected)

	switch key {
	case " ":
		l.TogglePlaying()
	case ".":
		l.StepManual()
	case "s":
		if l.TimeSpeed() == lab.SlowMotion {
			l.SetTimeSpeed(lab.NormalSpeed)
		} else {
			l.SetTimeSpeed(lab.SlowMotion)
		}
	case "1", "2":
		_ = l.SetNumberOfPendulums(int(key[0] - '0'))
		if m.selected >= l.NumberOfPendulums() {
			m.selected = 0
		}
	case "tab":
		m.selected = (m.selected + 1) % l.NumberOfPendulums()
		_ = l.SelectPeriodPendulum(m.selected)
	case "left":
		_ = l.Drag(m.selected, p.Angle()-dragStep)
	case "right":
		_ = l.Drag(m.selected, p.Angle()+dragStep)
	case "enter":
		_ = l.Release(m.selected)
	case "l":
		_ = l.SetLength(m.selected, p.Length()-lengthStep)
	case "L":
		_ = l.SetLength(m.selected, p.Length()+lengthStep)
	case "m":
		_ = l.SetMass(m.selected, p.Mass()-massStep)
	case "M":
		_ = l.SetMass(m.selected, p.Mass()+massStep)
	case "f":
		l.SetFriction(l.Environment().Friction() - frictionStep)
	case "F":
		l.SetFriction(l.Environment().Friction() + frictionStep)
	case "g":
		_ = l.SetGravityBody(nextGravityBody(l.Environment().Body()))
	case "p":
		l.Tracker().SetRunning(!l.Tracker().IsRunning())
	case "o":
		l.Tracker().SetRepeating(!l.Tracker().IsRepeating())
	case "e":
		next := (l.EnergyGraphMode() + 1) % (lab.EnergyBoth + 1)
		if l.SetEnergyGraphMode(next) != nil {
			_ = l.SetEnergyGraphMode(lab.EnergyOne)
		}
	case "u":
		l.SetRulerVisible(!l.Tools().Ruler)
	case "w":
		l.SetStopwatchVisible(!l.Tools().Stopwatch)
	case "W":
		if l.Tools().Stopwatch {
			l.Stopwatch().Toggle()
		}
	case "t":
		l.SetPeriodTraceVisible(!l.Tools().PeriodTrace)
	case "c":
		m.theme = nextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	case "r":
		l.ResetMotion()
		m.clearHistory()
	case "R":
		l.Reset()
		m.selected = 0
		m.clearHistory()
	}
}

// nextGravityBody cycles through the named bodies; custom gravity moves to
// the first one.
func nextGravityBody(current string) string {
	for i, b := range lab.GravityBodies {
		if b.Name == current {
			return lab.GravityBodies[(i+1)%len(lab.GravityBodies)].Name
		}
	}
	return lab.GravityBodies[0].Name
}

func (m Model) View() string {
	newScene(m.canvas).draw(m.lab)
	canvasView := m.styles.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(m.panel()))
	if m.showHelp {
		return m.help() + "\n\n" + mainView
	}
	return mainView
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

func (m Model) panel() string {
	l := m.lab
	st := m.styles
	env := l.Environment()

	var s strings.Builder
	s.WriteString(GradientText("PENDULUM LAB", m.theme.Primary, m.theme.Secondary) + "\n\n")

	status := st.playing.Render("PLAYING")
	if !l.IsPlaying() {
		status = st.paused.Render("PAUSED")
	}
	s.WriteString(status + st.subtle.Render("  "+l.TimeSpeed().String()+" speed") + "\n\n")

	s.WriteString(m.row("Time", fmt.Sprintf("%.2f s", l.Time())))
	s.WriteString(m.row("Gravity", fmt.Sprintf("%.2f m/s² (%s)", env.Gravity(), env.Body())))
	s.WriteString(m.row("Friction", fmt.Sprintf("%.3f", env.Friction())))
	s.WriteString("\n")

	for i, p := range l.ActivePendulums() {
		title := fmt.Sprintf("PENDULUM %d", i+1)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+title) + "\n")
		} else {
			s.WriteString("  " + st.subtle.Render(title) + "\n")
		}
		s.WriteString(m.row("Length", fmt.Sprintf("%.2f m", p.Length())))
		s.WriteString(m.row("Mass", fmt.Sprintf("%.2f kg", p.Mass())))
		s.WriteString(m.row("Angle", fmt.Sprintf("%+.1f°", p.Angle()*180/math.Pi)))
		s.WriteString(m.row("Omega", fmt.Sprintf("%+.3f rad/s", p.AngularVelocity())))
	}
	s.WriteString(st.Separator(40) + "\n")

	s.WriteString(st.title.Render("ENERGY "+strings.ToUpper(l.EnergyGraphMode().String())) + "\n")
	switch l.EnergyGraphMode() {
	case lab.EnergyOne:
		s.WriteString(m.bars[0].render(m.theme, st))
	case lab.EnergyTwo:
		s.WriteString(m.bars[1].render(m.theme, st))
	case lab.EnergyBoth:
		for i, b := range m.bars {
			s.WriteString(st.subtle.Render(fmt.Sprintf("pendulum %d", i+1)) + "\n")
			s.WriteString(b.render(m.theme, st))
		}
	}
	if chart := m.energyChart(); chart != "" {
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.Separator(40) + "\n")

	tracker := l.Tracker()
	state := "stopped"
	if tracker.IsRunning() {
		state = "running"
	}
	if tracker.IsRepeating() {
		state += ", repeat"
	}
	s.WriteString(m.row("Period", fmt.Sprintf("%.4f s  #%d %s", tracker.ElapsedTime(), tracker.Active()+1, state)))

	tools := l.Tools()
	if tools.Stopwatch {
		s.WriteString(m.row("Stopwatch", fmt.Sprintf("%.2f s", l.Stopwatch().Elapsed())))
	}
	s.WriteString(m.row("Tools", toolList(tools)))

	s.WriteString(st.hint.Render("\nSP:Play .:Step S:Slow ←→:Drag\nP:Period T:Trace ?:Help Q:Quit"))
	return s.String()
}

func toolList(t lab.Tools) string {
	var on []string
	if t.Ruler {
		on = append(on, "ruler")
	}
	if t.Stopwatch {
		on = append(on, "stopwatch")
	}
	if t.PeriodTrace {
		on = append(on, "trace")
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}

// energyChart plots kinetic and potential energy history for the graph
// mode; in EnergyBoth it compares the two totals.
func (m Model) energyChart() string {
	var series [][]float64
	switch m.lab.EnergyGraphMode() {
	case lab.EnergyOne:
		series = [][]float64{m.kinetic[0], m.potential[0]}
	case lab.EnergyTwo:
		series = [][]float64{m.kinetic[1], m.potential[1]}
	case lab.EnergyBoth:
		series = [][]float64{sumSeries(m.kinetic[0], m.potential[0]), sumSeries(m.kinetic[1], m.potential[1])}
	}
	for _, s := range series {
		if len(s) < 2 {
			return ""
		}
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(5),
		asciigraph.Width(30),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Blue),
		asciigraph.Caption("KE/PE (J)"),
	)
}

func sumSeries(a, b []float64) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

func (m Model) help() string {
	return m.styles.subtle.Render(`
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  .        - Step one frame           ║
║  S        - Toggle slow motion       ║
║  1 / 2    - Number of pendulums      ║
║  Tab      - Select pendulum          ║
║  ← / →    - Drag selected pendulum   ║
║  Enter    - Release pendulum         ║
║  l / L    - Length -/+ 0.1 m         ║
║  m / M    - Mass -/+ 0.1 kg          ║
║  f / F    - Friction -/+             ║
║  G        - Cycle gravity body       ║
║  P        - Period timer start/stop  ║
║  O        - Period timer repeat      ║
║  E        - Energy graph mode        ║
║  U        - Ruler                    ║
║  w / W    - Stopwatch show/start     ║
║  T        - Period trace             ║
║  C        - Cycle themes             ║
║  r / R    - Reset motion / all       ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`)
}
