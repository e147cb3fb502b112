package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/roversim/internal/analysis"
	"github.com/san-kum/roversim/internal/control"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
	"github.com/san-kum/roversim/internal/sim"
)

const (
	canvasWidth     = 44
	canvasHeight    = 14
	historyCapacity = 600
	frameRate       = time.Second / 30

	// PWMStep is how far one key press moves a pulse, in microseconds.
	PWMStep = 50.0
)

// Builder assembles a fresh simulator around the given controller. The live
// view calls it at start and on every reset.
type Builder func(ctrl dynamo.Controller) (*sim.Simulator, error)

type TickMsg time.Time

// Model drives a unit in wall-clock time from keyboard pulses.
type Model struct {
	build  Builder
	manual *control.Manual
	sim    *sim.Simulator
	name   string

	dt            float64
	stepsPerFrame int

	running  bool
	lastErr  error
	trail    []analysis.Point
	speeds   []float64
	showHelp bool
}

// NewModel builds the first simulator. dt is the Advance step; enough
// steps are taken per frame to keep pace with real time.
func NewModel(build Builder, dt float64, name string) (Model, error) {
	if !(dt > 0) {
		return Model{}, fmt.Errorf("%w: dt=%v", dynamo.ErrNonPositiveStep, dt)
	}
	m := Model{
		build:         build,
		manual:        control.NewManual(),
		name:          name,
		dt:            dt,
		stepsPerFrame: max(1, int(frameRate.Seconds()/dt+0.5)),
		running:       true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.lastErr = err
			}
		case "up", "k":
			m.manual.Nudge(PWMStep, 0)
		case "down", "j":
			m.manual.Nudge(-PWMStep, 0)
		case "left", "h":
			m.manual.Nudge(0, -PWMStep)
		case "right", "l":
			m.manual.Nudge(0, PWMStep)
		case "n":
			thr, _ := m.manual.Get()
			m.manual.Set(thr, rover.PWMNeutral)
		case "s":
			m.manual.Set(rover.PWMMin, rover.PWMNeutral)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerFrame; i++ {
				if !m.step() {
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances one dt. A refused step pauses the view and keeps the
// unit where it was.
func (m *Model) step() bool {
	s, err := m.sim.Step(m.dt)
	if err != nil {
		m.lastErr = err
		m.running = false
		return false
	}
	m.record(s)
	return true
}

func (m *Model) record(s sim.Sample) {
	m.trail = append(m.trail, analysis.Point{X: s.Outputs.X, Y: s.Outputs.Y})
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}
	m.speeds = append(m.speeds, s.Outputs.U)
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[1:]
	}
}

func (m *Model) reset() error {
	m.manual.Set(rover.PWMMin, rover.PWMNeutral)
	s, err := m.build(m.manual)
	if err != nil {
		return err
	}
	m.sim = s
	m.lastErr = nil
	m.trail = m.trail[:0]
	m.speeds = m.speeds[:0]

	u := s.Unit()
	out := u.Outputs()
	m.trail = append(m.trail, analysis.Point{X: out.X, Y: out.Y})
	m.speeds = append(m.speeds, out.U)
	return nil
}

// Unit exposes the driven unit.
func (m Model) Unit() *rover.Unit { return m.sim.Unit() }

func (m Model) Manual() *control.Manual { return m.manual }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.lastErr }

func (m Model) View() string {
	theme := CurrentTheme
	title := GradientText("roversim live · "+m.name, theme.Primary, theme.Secondary)

	status := StatusRunning.Render("● RUNNING")
	if !m.running {
		status = StatusPaused.Render("⏸ PAUSED")
	}
	u := m.sim.Unit()
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		title, "   ", status, "   ",
		MetricLabel.Render("t ")+MetricValue.Render(fmt.Sprintf("%.2fs", u.Time())),
	)

	left := BoxWithTitle("Track", m.drawTrack(), canvasWidth+2)
	right := Panel.Render(m.drawReadout())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var s strings.Builder
	s.WriteString(header + "\n\n")
	s.WriteString(body + "\n")
	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(5), asciigraph.Width(60), asciigraph.Caption("u_meas [m/s]"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}
	if m.lastErr != nil {
		s.WriteString(ErrorText.Render("refused: "+m.lastErr.Error()) + "\n")
	}
	s.WriteString(Separator(72) + "\n")
	if m.showHelp {
		s.WriteString(KeyHint.Render(helpText) + "\n")
	} else {
		s.WriteString(KeyHint.Render("↑/↓ throttle  ←/→ steering  space pause  r reset  ? help  q quit") + "\n")
	}
	return s.String()
}

const helpText = `up/k     throttle +50us     down/j  throttle -50us
left/h   steering -50us     right/l steering +50us
n        center steering    s       stop (1000/1500)
space    pause/resume       r       reset scenario
t        cycle theme        q       quit`

func (m Model) drawReadout() string {
	u := m.sim.Unit()
	out := u.Outputs()
	held := u.Held()
	thr, str := m.manual.Get()
	act, sen := u.LatchTimes()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("Commands") + "\n")
	row := func(label, value string) {
		s.WriteString(MetricLabel.Width(12).Render(label) + MetricValue.Render(value) + "\n")
	}
	row("pwm thr", fmt.Sprintf("%.0f us", thr))
	row("pwm str", fmt.Sprintf("%.0f us", str))
	row("held thr", fmt.Sprintf("%+.3f", held.Throttle))
	row("held str", fmt.Sprintf("%+.3f", held.Steering))
	s.WriteString(ProgressBar(held.Throttle, 20) + "\n")
	s.WriteString(CenterBar(held.Steering, 20) + "\n")
	row("act latch", latchString(act))
	row("sen latch", latchString(sen))

	s.WriteString("\n" + HeaderStyle.Render("Sensors") + "\n")
	v := out.Vector()
	for i := 0; i < rover.NumOutputs; i += 3 {
		s.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
			MetricLabel.Width(10).Render(rover.OutputNames[i]), MetricValue.Render(fmt.Sprintf("%+7.3f", v[i])),
			MetricLabel.Width(10).Render(rover.OutputNames[i+1]), MetricValue.Render(fmt.Sprintf("%+7.3f", v[i+1])),
			MetricLabel.Width(10).Render(rover.OutputNames[i+2]), MetricValue.Render(fmt.Sprintf("%+7.3f", v[i+2])),
		))
	}
	return s.String()
}

func latchString(t float64) string {
	if math.IsNaN(t) {
		return "-"
	}
	return fmt.Sprintf("%.3fs", t)
}

func (m Model) drawTrack() string {
	c := NewCanvas(canvasWidth, canvasHeight)
	c.DrawTrack(m.trail, 1)
	return c.String()
}
