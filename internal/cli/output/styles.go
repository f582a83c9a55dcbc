package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles of text output.
type Styles struct {
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Status colors, by HTTP status class.
	StatusOK       lipgloss.Style
	StatusRedirect lipgloss.Style
	StatusClient   lipgloss.Style
	StatusServer   lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:          r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:        r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:        r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:          r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		StatusOK:       r.NewStyle().Foreground(lipgloss.Color("10")),
		StatusRedirect: r.NewStyle().Foreground(lipgloss.Color("14")),
		StatusClient:   r.NewStyle().Foreground(lipgloss.Color("11")),
		StatusServer:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Status picks the style of an HTTP status code.
func (s *Styles) Status(code int) lipgloss.Style {
	switch {
	case code >= 500:
		return s.StatusServer
	case code >= 400:
		return s.StatusClient
	case code >= 300:
		return s.StatusRedirect
	case code >= 200:
		return s.StatusOK
	}
	return s.Muted
}
