package tui

import (
	"charm.land/lipgloss/v2"
)

var (
	highlight = lipgloss.Color("#7D56F4")
	subdued   = lipgloss.Color("#6C6C6C")
	good      = lipgloss.Color("#43BF6D")
	warn      = lipgloss.Color("#FFA500")
	bad       = lipgloss.Color("#FF5F5F")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	statusIdleStyle    = lipgloss.NewStyle().Foreground(good)
	statusRunningStyle = lipgloss.NewStyle().Foreground(warn)
	statusWaitingStyle = lipgloss.NewStyle().Foreground(highlight)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(good)
	failedLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(bad)
	noticeStyle         = lipgloss.NewStyle().Foreground(warn).Italic(true)
	metaStyle           = lipgloss.NewStyle().Foreground(subdued)

	widgetStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)

	widgetDoneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subdued).
			Padding(0, 1)

	widgetTitleStyle  = lipgloss.NewStyle().Bold(true)
	optionStyle       = lipgloss.NewStyle()
	optionCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	optionPickedStyle = lipgloss.NewStyle().Foreground(good)
	widgetErrorStyle  = lipgloss.NewStyle().Foreground(bad)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	chatViewportStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(highlight)

	inputPromptStyle = lipgloss.NewStyle().Foreground(highlight)
	errorStyle       = lipgloss.NewStyle().Foreground(bad)
	footerStyle      = lipgloss.NewStyle()
	appStyle         = lipgloss.NewStyle().Padding(1, 0, 0, 0)
)
