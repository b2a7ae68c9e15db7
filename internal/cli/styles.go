package cli

import "github.com/charmbracelet/lipgloss"

var (
	ColorOK    = lipgloss.Color("42")
	ColorError = lipgloss.Color("196")
	ColorWarn  = lipgloss.Color("214")
	ColorDim   = lipgloss.Color("241") // Dim gray

	TitleStyle = lipgloss.NewStyle().Bold(true)
	DimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	LabelStyle = DimStyle.Width(14)
	OKStyle    = lipgloss.NewStyle().Foreground(ColorOK)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)

func mark(ok bool) string {
	if ok {
		return OKStyle.Render("✔")
	}
	return ErrorStyle.Render("✘")
}
