package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used in text mode.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Code          lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
)

// DefaultStyles returns coloured styles for terminals.
func DefaultStyles() Styles {
	return Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Header2:       lipgloss.NewStyle().Bold(true),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(colorMuted),
		Success:       lipgloss.NewStyle().Foreground(colorGreen),
		Warning:       lipgloss.NewStyle().Foreground(colorYellow),
		Error:         lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		Code:          lipgloss.NewStyle().Foreground(colorAccent),
		StatusSuccess: lipgloss.NewStyle().Foreground(colorGreen).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(colorRed).SetString("✗"),
	}
}

// PlainStyles returns styles without colour or emphasis.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header1:       plain,
		Header2:       plain,
		Bold:          plain,
		Muted:         plain,
		Success:       plain,
		Warning:       plain,
		Error:         plain,
		Code:          plain,
		StatusSuccess: plain.SetString("✓"),
		StatusFailed:  plain.SetString("✗"),
	}
}
