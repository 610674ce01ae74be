package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors adjust to light and dark terminal themes
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorName    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles holds the semantic styles used by ccstart output
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Name    lipgloss.Style
	Path    lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the style set bound to renderer r
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		Warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Name:    r.NewStyle().Foreground(colorName),
		Path:    r.NewStyle().Underline(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
	}
}
