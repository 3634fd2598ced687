package tui

import (
	"fmt"
	"strings"

	"recruiter-console/internal/board"
	"recruiter-console/internal/domain"
)

const maxCardWidth = 80

// button is one trigger on an application card.
type button struct {
	Key     string
	Label   string
	Action  domain.Action
	Enabled bool
	Busy    bool
}

var statusButtons = map[domain.ApplicationStatus]struct{ key, label string }{
	domain.ApplicationStatusAccepted: {"a", "✅ Accept"},
	domain.ApplicationStatusRejected: {"r", "❌ Reject"},
	domain.ApplicationStatusPending:  {"p", "⏳ Pending"},
}

// buttons returns the card's triggers with their enabled and busy state.
func buttons(v board.View, app domain.Application) []button {
	inFlight := v.Pending.Get(app.ID)
	out := make([]button, 0, len(domain.Statuses)+1)
	for _, s := range domain.Statuses {
		action := domain.StatusAction(s)
		out = append(out, button{
			Key:     statusButtons[s].key,
			Label:   statusButtons[s].label,
			Action:  action,
			Enabled: v.CanSetStatus(app.ID, s),
			Busy:    inFlight == action,
		})
	}
	return append(out, button{
		Key:     "d",
		Label:   "🗑️ Delete",
		Action:  domain.ActionDelete,
		Enabled: v.CanDelete(app.ID),
		Busy:    inFlight == domain.ActionDelete,
	})
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("Applications") + "\n" +
		subtleStyle.Render("Manage applications for your job postings")
	if m.recruiter != "" {
		header += "\n" + subtleStyle.Render("Signed in as "+m.recruiter)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if m.view.Error != "" {
		b.WriteString(bannerStyle.Render("⚠️  " + m.view.Error))
		b.WriteString("\n")
	}

	switch {
	case m.view.Loading:
		b.WriteString(subtleStyle.Render("Loading applications…"))
		b.WriteString("\n")
	case len(m.view.Applications) == 0:
		empty := titleStyle.Render("No applications found") + "\n" +
			subtleStyle.Render("No job seekers have applied to your postings yet.")
		b.WriteString(cardStyle.Width(m.cardWidth()).Render(empty))
		b.WriteString("\n")
	default:
		for i, app := range m.view.Applications {
			b.WriteString(m.renderCard(app, i == m.cursor))
			b.WriteString("\n")
		}
	}

	if m.confirming != "" {
		b.WriteString(modalStyle.Render(board.DeletePrompt + "  (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) cardWidth() int {
	if m.width <= 0 || m.width-2 > maxCardWidth {
		return maxCardWidth
	}
	return m.width - 2
}

func (m Model) renderCard(app domain.Application, selected bool) string {
	lines := []string{
		titleStyle.Render(app.JobTitle()),
		badgeStyle(app.Status).Render(app.Status.Label()),
		"Applicant: " + domain.OrNA(app.FullName),
		"Email: " + domain.OrNA(app.Email),
	}

	if app.Job != (domain.JobRef{}) {
		lines = append(lines,
			"🏢 Work Arrangement: "+domain.Humanize(app.Job.JobType),
			"💼 Employment Type: "+domain.Humanize(app.Job.EmploymentType),
		)
	}

	lines = append(lines, "🛠  "+renderSkills(app))

	if app.ResumeURL != "" {
		lines = append(lines, "📄 View Resume: "+linkStyle.Render(app.ResumeURL))
	}
	if app.PortfolioURL != "" {
		lines = append(lines, "🌐 View Portfolio: "+linkStyle.Render(app.PortfolioURL))
	}
	if app.GithubURL != "" {
		lines = append(lines, "💻 View GitHub: "+linkStyle.Render(app.GithubURL))
	}
	if app.Message != "" {
		lines = append(lines, titleStyle.Render("Cover Letter"), subtleStyle.Render(app.Message))
	}

	var row []string
	for _, btn := range buttons(m.view, app) {
		row = append(row, renderButton(btn))
	}
	lines = append(lines, "", strings.Join(row, "  "))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func renderSkills(app domain.Application) string {
	shown, more := app.SkillsPreview()
	if len(shown) == 0 {
		return "No skills specified"
	}
	parts := make([]string, 0, len(shown)+1)
	for _, s := range shown {
		parts = append(parts, skillStyle.Render("["+s+"]"))
	}
	if more > 0 {
		parts = append(parts, moreSkillStyle.Render(fmt.Sprintf("+%d more", more)))
	}
	return strings.Join(parts, " ")
}

func renderButton(btn button) string {
	switch {
	case btn.Busy:
		return buttonStyle(btn.Action).Render("[" + btn.Key + "] …")
	case !btn.Enabled:
		return disabledButtonStyle.Render("[" + btn.Key + "] " + btn.Label)
	default:
		return buttonStyle(btn.Action).Render("[" + btn.Key + "] " + btn.Label)
	}
}
