package tui

import "github.com/charmbracelet/lipgloss"

var (
	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")
	cardBorderColor        = lipgloss.Color("#56526e")
	focusBorderColor       = lipgloss.Color("#7f5af0")

	heroTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle        = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	helperStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	captionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	overlayTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff4d0"))
	statusBarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	legacyBadgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	buttonStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	disabledButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpBoxStyle        = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(focusBorderColor).Padding(0, 1)

	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cardBorderColor)
	focusedCardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(focusBorderColor)
)

