package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/marko/internal/config"
	"github.com/gubarz/marko/internal/highlight"
)

// StyleManager encapsulates the styles of the viewer and editor chrome.
// Document text is styled by the render and highlight packages.
type StyleManager struct {
	Title   lipgloss.Style
	Status  lipgloss.Style
	Dim     lipgloss.Style
	Error   lipgloss.Style
	Pane    lipgloss.Style
	Focused lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	s := &StyleManager{}
	s.apply(lipgloss.Color("255"), lipgloss.Color("244"), lipgloss.Color("240"))
	return s
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	s.apply(
		highlight.ParseColor(config.GetColorStrong()),
		highlight.ParseColor(config.GetColorWeak()),
		highlight.ParseColor(config.GetColorBorder()),
	)
}

func (s *StyleManager) apply(strong, weak, border lipgloss.Color) {
	s.Title = lipgloss.NewStyle().Bold(true).Foreground(strong)
	s.Status = lipgloss.NewStyle().Foreground(weak)
	s.Dim = lipgloss.NewStyle().Foreground(border)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	s.Pane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
	s.Focused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(strong)
	s.Divider = lipgloss.NewStyle().Foreground(border)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
