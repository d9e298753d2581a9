package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, kept calm and low-contrast.
var (
	Primary = lipgloss.Color("#14B8A6") // Teal
	Accent  = lipgloss.Color("#8B5CF6") // Purple
	Good    = lipgloss.Color("#22C55E") // Green
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Progress elements
var (
	DayDone = lipgloss.NewStyle().
		Foreground(Good).
		Bold(true)

	DayOpen = lipgloss.NewStyle().
		Foreground(TextDim)

	TierLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Encourage = lipgloss.NewStyle().
			Foreground(Primary).
			Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)
