package ui

import (
	"fmt"
	"strings"
)

// View renders the current view.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LoadingView:
		body = styles.help.Render("Checking session...")
	case LoginView:
		body = m.loginView()
	case RegisterView:
		body = m.registerView()
	case DashboardView:
		body = m.dashboardView()
	case ConfirmDeleteView:
		body = m.confirmView()
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("shrtx"))
	b.WriteString("\n\n")
	b.WriteString(body)
	if m.toast != "" {
		b.WriteString("\n\n")
		if m.toastErr {
			b.WriteString(styles.err.Render(m.toast))
		} else {
			b.WriteString(styles.ok.Render(m.toast))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m *Model) loginView() string {
	var b strings.Builder
	b.WriteString(styles.label.Render("Sign in"))
	b.WriteString("\n\n")
	for i := range m.loginInputs {
		b.WriteString(m.loginInputs[i].View())
		b.WriteString("\n")
	}
	return styles.card.Render(b.String())
}

func (m *Model) registerView() string {
	var b strings.Builder
	b.WriteString(styles.label.Render("Create an account"))
	b.WriteString("\n\n")
	for i := range m.regInputs {
		b.WriteString(m.regInputs[i].View())
		b.WriteString("\n")
	}
	return styles.card.Render(b.String())
}

func (m *Model) dashboardView() string {
	var b strings.Builder

	if user, ok := m.session.User(); ok {
		b.WriteString(styles.label.Render(fmt.Sprintf("Welcome, %s", user.DisplayName())))
		b.WriteString("\n\n")
	}

	stats := m.urls.Stats()
	statLine := fmt.Sprintf("Total: %d   Today: %d   This week: %d", stats.Total, stats.Today, stats.ThisWeek)
	b.WriteString(styles.help.Render(statLine))
	b.WriteString("\n\n")

	b.WriteString(m.urlInput.View())
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.urls.Loading() {
		b.WriteString(styles.help.Render("Loading URLs..."))
	} else if len(m.visible) == 0 {
		if m.urls.FilterText() != "" {
			b.WriteString(styles.help.Render("No URLs match your search."))
		} else {
			b.WriteString(styles.help.Render("No URLs yet. Shorten one above."))
		}
	} else {
		b.WriteString(m.table.View())
	}
	return b.String()
}

func (m *Model) confirmView() string {
	var b strings.Builder
	b.WriteString(styles.warn.Render("Delete this URL?"))
	b.WriteString("\n\n")
	b.WriteString(m.confirm.ShortURL)
	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.confirm.OriginalURL))
	b.WriteString("\n\n")
	b.WriteString(styles.help.Render("y to confirm, n to cancel"))
	return styles.card.Render(b.String())
}

func (m *Model) helpView() string {
	switch m.view {
	case LoginView:
		return m.help.ShortHelpView(loginHelp(m.keys))
	case RegisterView:
		return m.help.ShortHelpView(registerHelp(m.keys))
	case DashboardView:
		return m.help.ShortHelpView(dashboardHelp(m.keys))
	case ConfirmDeleteView:
		return m.help.ShortHelpView(confirmHelp(m.keys))
	}
	return ""
}
