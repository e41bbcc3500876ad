package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravlab/internal/dynamo"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/scenario"
)

const (
	width           = 64
	height          = 24
	historyCapacity = 600
	trailLength     = 180
	frameInterval   = time.Second / 60

	gStep         = 1.1
	timeScaleStep = 0.25

	// a stalled terminal should not fling the bodies
	maxFrameDelta = 0.25
)

type TickMsg time.Time

// Model drives a scenario once per terminal frame and renders it.
type Model struct {
	scn           *scenario.Scenario
	bodies        dynamo.Bodies
	canvas        *Canvas
	camera        *Camera
	trails        [][]dynamo.Vec3
	energyHistory []float64
	lastTick      time.Time
	lastErr       string
	showHelp      bool
	logger        *slog.Logger
}

func NewModel(s *scenario.Scenario, logger *slog.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	bodies := s.Bodies()
	return Model{
		scn:           s,
		bodies:        bodies,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(bodies),
		trails:        make([][]dynamo.Vec3, len(bodies)),
		energyHistory: make([]float64, 0, historyCapacity),
		logger:        logger,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation. Parameter keys
// land between two ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.scn.TogglePlaying()
		case "r":
			m.reset()
		case "up", "k":
			m.setG(m.scn.G() * gStep)
		case "down", "j":
			m.setG(m.scn.G() / gStep)
		case "right", "l":
			m.setTimeScale(m.scn.TimeScale() + timeScaleStep)
		case "left", "h":
			m.setTimeScale(math.Max(0, m.scn.TimeScale()-timeScaleStep))
		case "t":
			NextTheme()
		case "x":
			m.camera.TiltBy(0.1)
		case "X":
			m.camera.TiltBy(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "f":
			m.camera.Fit(m.bodies)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(m.frameDelta(time.Time(msg)))
		return m, tick()
	}
	return m, nil
}

// frameDelta is the real time since the previous tick, clamped.
func (m *Model) frameDelta(now time.Time) float64 {
	dt := frameInterval.Seconds()
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now
	return math.Max(0, math.Min(dt, maxFrameDelta))
}

func (m *Model) step(dt float64) {
	m.bodies = m.scn.Tick(dt)
	if !m.scn.Playing() {
		return
	}

	for i, b := range m.bodies {
		if i >= len(m.trails) {
			break
		}
		m.trails[i] = append(m.trails[i], b.Position)
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}

	m.energyHistory = append(m.energyHistory, m.scn.Gravity().Energy(m.bodies))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) setG(g float64) {
	if err := m.scn.SetG(g); err != nil {
		m.fail(err)
		return
	}
	m.lastErr = ""
}

func (m *Model) setTimeScale(ts float64) {
	if err := m.scn.SetTimeScale(ts); err != nil {
		m.fail(err)
		return
	}
	m.lastErr = ""
}

func (m *Model) fail(err error) {
	m.lastErr = err.Error()
	m.logger.Warn("parameter rejected", "err", err)
}

// reset restores the scenario and drops trails and history.
func (m *Model) reset() {
	m.scn.Reset()
	m.bodies = m.scn.Bodies()
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
	m.energyHistory = m.energyHistory[:0]
	m.lastErr = ""
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.PixelSize()
	theme := CurrentTheme

	for i, trail := range m.trails {
		color := theme.Trail
		if i < len(m.bodies) && m.bodies[i].TrailColor != "" {
			color = lipgloss.Color(m.bodies[i].TrailColor)
		}
		for _, p := range trail {
			if x, y, _, ok := m.camera.Project(p, cw, ch); ok {
				m.canvas.SetColor(x, y, color)
			}
		}
	}

	for _, b := range m.bodies {
		x, y, _, ok := m.camera.Project(b.Position, cw, ch)
		if !ok {
			continue
		}
		color := theme.Body
		if b.Color != "" {
			color = lipgloss.Color(b.Color)
		}
		m.canvas.Disc(x, y, m.camera.PixelRadius(b.Radius, cw, ch), color)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := themeStyles(CurrentTheme)

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.scn.Name())) + "  ")
	if m.scn.Playing() {
		s.WriteString(st.running.Render("RUNNING"))
	} else {
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("G", fmt.Sprintf("%.3f", m.scn.G()))
	row("Time x", fmt.Sprintf("%.2f", m.scn.TimeScale()))
	row("Sim time", fmt.Sprintf("%.2fs", m.scn.SimTime()))
	row("Bodies", fmt.Sprintf("%d", len(m.bodies)))
	if n := len(m.energyHistory); n > 0 {
		row("Energy", fmt.Sprintf("%.2f", m.energyHistory[n-1]))
	}
	if m.lastErr != "" {
		s.WriteString(st.errorMsg.Render(m.lastErr) + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString("\n" + st.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + m.taskPanel(st) + "\n")
	s.WriteString(st.help.Render("SP pause  R reset  ↑↓ G  ←→ speed  T theme  ? help  Q quit"))

	canvasView := lipgloss.NewStyle().Padding(1, 1).Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) taskPanel(st styles) string {
	tasks := m.scn.Tasks()
	if len(tasks) == 0 {
		return ""
	}
	cur := m.scn.CurrentTask()
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("TASKS %s %d/%d\n", ProgressBar(done, len(tasks), 16, CurrentTheme), done, len(tasks)))
	for i, t := range tasks {
		switch {
		case t.Completed:
			b.WriteString(st.done.Render("✓ "+t.Description) + "\n")
		case i == cur:
			b.WriteString(st.active.Render("▸ "+t.Description) + "\n")
		default:
			b.WriteString(st.pending.Render("· "+t.Description) + "\n")
		}
	}

	active := tasks[cur]
	if active.Completed && active.Explanation != "" {
		b.WriteString(st.hint.Render(active.Explanation))
	} else if !active.Completed && active.Hint != "" {
		b.WriteString(st.hint.Render(active.Hint))
	}
	return b.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset scenario           ║
║  Up/K     - Increase G (x1.1)        ║
║  Down/J   - Decrease G (/1.1)        ║
║  Right/L  - Time scale +0.25         ║
║  Left/H   - Time scale -0.25         ║
║  X / x    - Tilt camera              ║
║  + / -    - Zoom                     ║
║  F        - Refit camera             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive runs the live view until the user quits.
func RunLive(s *scenario.Scenario, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewModel(s, logger), tea.WithAltScreen()).Run()
	return err
}
