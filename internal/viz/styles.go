package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/satsim/internal/satellite"
)

// Styles is the set of lipgloss styles derived from a Theme.
type Styles struct {
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Active  lipgloss.Style
	Idle    lipgloss.Style
	Output  lipgloss.Style
	Error   lipgloss.Style
	Echo    lipgloss.Style
	KeyHint lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Active:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Idle:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Output:  lipgloss.NewStyle().Foreground(t.Text),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Echo:    lipgloss.NewStyle().Foreground(t.Accent),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// StatusPanel renders the snapshot as a bordered block.
func (s Styles) StatusPanel(snap satellite.Snapshot) string {
	panels := s.Idle.Render(snap.PanelStatus())
	if snap.PanelsActive {
		panels = s.Active.Render(snap.PanelStatus())
	}

	orientation := snap.Orientation
	if orientation == "" {
		orientation = "(none)"
	}

	rows := []string{
		s.Title.Render("SATELLITE"),
		"",
		fmt.Sprintf("%s %s", s.Label.Render("orientation"), s.Value.Render(orientation)),
		fmt.Sprintf("%s %s", s.Label.Render("panels     "), panels),
		fmt.Sprintf("%s %s", s.Label.Render("data       "), s.Value.Render(fmt.Sprint(snap.DataCollected))),
	}
	return s.Panel.Render(strings.Join(rows, "\n"))
}
