package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/scenario"
)

var presetInfo = map[string]string{
	"default":      "sun with two planets",
	"binary":       "two equal stars",
	"inner-system": "four rocky planets",
	"figure-eight": "three-body choreography",
}

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state     int
	cursor    int
	presets   []string
	err       string
	liveModel Model
	logger    *slog.Logger
}

func NewPicker(logger *slog.Logger) *picker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		logger:  logger,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.menuKey(msg)
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		cmd, err := m.start(m.presets[m.cursor])
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m *picker) start(name string) (tea.Cmd, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	s, err := scenario.New(cfg, scenario.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.liveModel = NewModel(s, m.logger)
	m.state = stateSim
	return m.liveModel.Init(), nil
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}

	t := CurrentTheme
	h := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	sel := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Secondary)
	key := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("GRAVLAB") + "\n    " + sub.Render("n-body gravity sandbox") + "\n    " + Separator(25, t) + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", key.Render("▸"), sel.Render(fmt.Sprintf("%-14s", name)), desc.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-14s", name)), sub.Render(presetInfo[name])))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(t.Warning).Render(m.err) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" start  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu, then the live view.
func RunInteractive(logger *slog.Logger) error {
	_, err := tea.NewProgram(NewPicker(logger), tea.WithAltScreen()).Run()
	return err
}
