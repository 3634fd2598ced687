package tui

import (
	"github.com/charmbracelet/lipgloss"

	"recruiter-console/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E5E7EB")).
			Padding(0, 1).
			MarginBottom(1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E5E7EB")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("#4F46E5"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B91C1C")).
			Background(lipgloss.Color("#FEF2F2")).
			Padding(0, 1).
			MarginBottom(1)

	skillStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1D4ED8"))
	moreSkillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB")).Underline(true)

	disabledButtonStyle = lipgloss.NewStyle().Faint(true)
	modalStyle          = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("#B91C1C")).
				Padding(0, 1)
)

func badgeStyle(s domain.ApplicationStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch s {
	case domain.ApplicationStatusAccepted:
		return base.Foreground(lipgloss.Color("#166534")).Background(lipgloss.Color("#DCFCE7"))
	case domain.ApplicationStatusRejected:
		return base.Foreground(lipgloss.Color("#991B1B")).Background(lipgloss.Color("#FEE2E2"))
	default:
		return base.Foreground(lipgloss.Color("#854D0E")).Background(lipgloss.Color("#FEF9C3"))
	}
}

func buttonStyle(a domain.Action) lipgloss.Style {
	switch a {
	case domain.StatusAction(domain.ApplicationStatusAccepted):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D"))
	case domain.StatusAction(domain.ApplicationStatusPending):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#A16207"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C"))
	}
}
