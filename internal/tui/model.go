// Package tui is a full-screen command console for the satellite.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/satellite"
	"github.com/san-kum/satsim/internal/viz"
)

const (
	maxHistory     = 500
	sparklineWidth = 24
)

type lineKind int

const (
	lineEcho lineKind = iota
	lineOutput
	lineError
)

type historyLine struct {
	text string
	kind lineKind
}

type Model struct {
	interp  *command.Interpreter
	input   textinput.Model
	styles  viz.Styles
	history []historyLine
	// series is data collected after each command, starting at the
	// initial value.
	series []float64

	width  int
	height int
}

// New builds a console around its own interpreter. Output is rendered in
// the history pane, so the interpreter gets no emitter.
func New(sat *satellite.Satellite, theme viz.Theme, opts ...command.Option) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "rotate East, activate, deactivate, collect, status, exit"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	interp := command.New(sat, nil, opts...)
	m := Model{
		interp: interp,
		input:  ti,
		styles: viz.NewStyles(theme),
		series: []float64{float64(interp.Snapshot().DataCollected)},
		width:  80,
		height: 24,
	}
	m.appendLines(lineOutput, "Initial State:")
	m.appendLines(lineOutput, interp.Snapshot().Lines()...)
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.input.Reset()
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()

	if line == command.ExitKeyword {
		return m, tea.Quit
	}

	m.appendLines(lineEcho, "› "+line)
	res := m.interp.Execute(line)
	kind := lineOutput
	if res.Err != nil {
		kind = lineError
	}
	m.appendLines(kind, res.Lines...)
	m.series = append(m.series, float64(m.interp.Snapshot().DataCollected))
	return m, nil
}

func (m *Model) appendLines(kind lineKind, lines ...string) {
	for _, l := range lines {
		m.history = append(m.history, historyLine{text: l, kind: kind})
	}
	if over := len(m.history) - maxHistory; over > 0 {
		m.history = m.history[over:]
	}
}

// Snapshot exposes the satellite state behind the console.
func (m Model) Snapshot() satellite.Snapshot { return m.interp.Snapshot() }

func (m Model) View() string {
	s := m.styles
	snap := m.interp.Snapshot()

	side := lipgloss.JoinVertical(lipgloss.Left,
		s.StatusPanel(snap),
		s.Label.Render("data per command"),
		s.Value.Render(viz.Sparkline(m.series, sparklineWidth)),
	)

	// Header, input and hints take four rows.
	rows := max(m.height-4, 3)
	start := max(len(m.history)-rows, 0)
	var hist strings.Builder
	for i, h := range m.history[start:] {
		if i > 0 {
			hist.WriteByte('\n')
		}
		switch h.kind {
		case lineEcho:
			hist.WriteString(s.Echo.Render(h.text))
		case lineError:
			hist.WriteString(s.Error.Render(h.text))
		default:
			hist.WriteString(s.Output.Render(h.text))
		}
	}

	histWidth := max(m.width-lipgloss.Width(side)-2, 20)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(histWidth).Render(hist.String()),
		"  ",
		side,
	)

	header := s.Title.Render("satsim") + s.Label.Render(fmt.Sprintf("  %d commands", len(m.series)-1))
	hints := s.KeyHint.Render("enter run · esc clear · exit or ctrl+c quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.input.View(), hints)
}

// Run starts the console on the terminal and blocks until the user quits.
func Run(sat *satellite.Satellite, theme viz.Theme, opts ...command.Option) (satellite.Snapshot, error) {
	p := tea.NewProgram(New(sat, theme, opts...), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return satellite.Snapshot{}, fmt.Errorf("error running TUI: %w", err)
	}
	return final.(Model).Snapshot(), nil
}
