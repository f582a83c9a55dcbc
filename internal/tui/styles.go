package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	header   lipgloss.Style
	focused  lipgloss.Style
	divider  lipgloss.Style
	selected lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style

	statusOK       lipgloss.Style
	statusRedirect lipgloss.Style
	statusClient   lipgloss.Style
	statusServer   lipgloss.Style
}

func newStyles(noColor bool) styles {
	r := lipgloss.NewRenderer(os.Stdout)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		header:         r.NewStyle().Bold(true),
		focused:        r.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12")),
		divider:        r.NewStyle().Foreground(lipgloss.Color("8")),
		selected:       r.NewStyle().Reverse(true),
		status:         r.NewStyle().Foreground(lipgloss.Color("8")),
		err:            r.NewStyle().Foreground(lipgloss.Color("9")),
		statusOK:       r.NewStyle().Foreground(lipgloss.Color("10")),
		statusRedirect: r.NewStyle().Foreground(lipgloss.Color("14")),
		statusClient:   r.NewStyle().Foreground(lipgloss.Color("11")),
		statusServer:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (s styles) forStatus(code int) (lipgloss.Style, bool) {
	switch {
	case code >= 500:
		return s.statusServer, true
	case code >= 400:
		return s.statusClient, true
	case code >= 300:
		return s.statusRedirect, true
	case code >= 200:
		return s.statusOK, true
	}
	return lipgloss.Style{}, false
}
