package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Teal

	// Severity colors
	SevP0 = lipgloss.Color("#FF0000") // Bright red
	SevP1 = lipgloss.Color("#FF6B6B") // Red/Orange
	SevP2 = lipgloss.Color("#FFD93D") // Yellow

	// Status colors
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
	Info    = lipgloss.Color("#4D96FF")
)

// Pre-configured styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	PassStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))
)

// severityStyles maps severity names to their render styles.
var severityStyles = map[string]lipgloss.Style{
	"P0": lipgloss.NewStyle().Foreground(SevP0).Bold(true),
	"P1": lipgloss.NewStyle().Foreground(SevP1).Bold(true),
	"P2": lipgloss.NewStyle().Foreground(SevP2),
}

// SeverityStyle returns the style for a severity name, muted for
// unknown values.
func SeverityStyle(severity string) lipgloss.Style {
	if s, ok := severityStyles[severity]; ok {
		return s
	}
	return MutedStyle
}

// categoryStyles maps triage categories to their render styles.
var categoryStyles = map[string]lipgloss.Style{
	"new":            lipgloss.NewStyle().Foreground(Error).Bold(true),
	"waiver_expired": lipgloss.NewStyle().Foreground(Warning).Bold(true),
	"baselined":      lipgloss.NewStyle().Foreground(Muted),
	"waived":         lipgloss.NewStyle().Foreground(Info),
}

// CategoryStyle returns the style for a triage category.
func CategoryStyle(category string) lipgloss.Style {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return MutedStyle
}
