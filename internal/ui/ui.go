package ui

import (
	"context"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/session"
	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/desertthunder/shrtx/internal/urls"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	RegisterView
	DashboardView
	ConfirmDeleteView
)

// CredentialSource produces a third-party identity credential for sign-in.
// Implemented by identity.Flow; nil when Google sign-in is not configured.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// dashboard focus targets
const (
	focusShorten = iota
	focusSearch
	focusTable
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *session.Store
	urls    *urls.Collection
	google  CredentialSource

	width  int
	height int

	loginInputs []textinput.Model
	loginFocus  int
	regInputs   []textinput.Model
	regFocus    int

	urlInput    textinput.Model
	searchInput textinput.Model
	table       table.Model
	focus       int
	visible     []models.ShortURL

	confirm models.ShortURL

	toast    string
	toastErr bool

	help help.Model
	keys keyMap
}

// SessionExpiredMsg forces navigation to the login view. The API client's
// global 401 hook sends it via Program.Send, so it fires regardless of which
// operation hit the expired session.
type SessionExpiredMsg struct{}

type sessionCheckedMsg struct{ state session.State }

type signedInMsg struct{}

type registeredMsg struct{}

type loggedOutMsg struct{}

type refreshedMsg struct{ err error }

type shortenedMsg struct{ err error }

type removedMsg struct{ err error }

type errMsg struct{ err error }

// NewModel creates a new TUI model with the provided stores. google may be
// nil when third-party sign-in is not configured.
func NewModel(ctx context.Context, store *session.Store, collection *urls.Collection, google CredentialSource) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "full name"
	name.CharLimit = 128

	regEmail := textinput.New()
	regEmail.Placeholder = "email"
	regEmail.CharLimit = 128

	regPassword := textinput.New()
	regPassword.Placeholder = "password"
	regPassword.EchoMode = textinput.EchoPassword
	regPassword.CharLimit = 128

	urlInput := textinput.New()
	urlInput.Placeholder = "Enter your long URL here..."
	urlInput.CharLimit = 2048
	urlInput.Width = 60

	searchInput := textinput.New()
	searchInput.Placeholder = "Search URLs..."
	searchInput.CharLimit = 128
	searchInput.Width = 30

	columns := []table.Column{
		{Title: "Short URL", Width: 28},
		{Title: "Original URL", Width: 40},
		{Title: "Clicks", Width: 6},
		{Title: "Created", Width: 10},
	}

	return &Model{
		ctx:         ctx,
		view:        LoadingView,
		session:     store,
		urls:        collection,
		google:      google,
		loginInputs: []textinput.Model{email, password},
		regInputs:   []textinput.Model{name, regEmail, regPassword},
		urlInput:    urlInput,
		searchInput: searchInput,
		table:       table.New(table.WithColumns(columns), table.WithHeight(10)),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init kicks off the initial session check.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Height > 16 {
			m.table.SetHeight(msg.Height - 16)
		}
		return m, nil

	case SessionExpiredMsg:
		m.view = LoginView
		m.focusLogin(0)
		m.setToast("Session expired, please sign in again", true)
		return m, nil

	case sessionCheckedMsg:
		if msg.state == session.Authenticated {
			m.view = DashboardView
			m.focus = focusShorten
			m.urlInput.Focus()
			return m, m.refresh()
		}
		m.view = LoginView
		m.focusLogin(0)
		return m, nil

	case signedInMsg:
		m.view = DashboardView
		m.focus = focusShorten
		m.urlInput.Focus()
		m.setToast("Login successful!", false)
		return m, m.refresh()

	case registeredMsg:
		m.view = LoginView
		m.focusLogin(0)
		m.setToast("Registration successful! Please login.", false)
		return m, nil

	case loggedOutMsg:
		m.view = LoginView
		m.focusLogin(0)
		m.setToast("Logged out successfully", false)
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
		}
		m.rebuildRows()
		return m, nil

	case shortenedMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
		} else {
			m.urlInput.SetValue("")
			m.setToast("URL shortened successfully!", false)
		}
		m.rebuildRows()
		return m, nil

	case removedMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
		} else {
			m.setToast("URL deleted successfully!", false)
		}
		m.rebuildRows()
		return m, nil

	case errMsg:
		m.setToast(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case RegisterView:
			return m.handleRegisterKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		m.focusLogin((m.loginFocus + 1) % len(m.loginInputs))
		return m, nil
	case "enter":
		email := m.loginInputs[0].Value()
		password := m.loginInputs[1].Value()
		return m, m.signIn(email, password)
	case "ctrl+r":
		m.view = RegisterView
		m.focusRegister(0)
		return m, nil
	case "ctrl+g":
		return m, m.googleSignIn()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		m.focusRegister((m.regFocus + 1) % len(m.regInputs))
		return m, nil
	case "enter":
		name := m.regInputs[0].Value()
		email := m.regInputs[1].Value()
		password := m.regInputs[2].Value()
		return m, m.signUp(name, email, password)
	case "esc":
		m.view = LoginView
		m.focusLogin(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.regInputs[m.regFocus], cmd = m.regInputs[m.regFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.cycleDashboardFocus()
		return m, nil
	case "ctrl+l":
		return m, m.logOut()
	case "esc":
		if m.focus != focusTable {
			m.cycleDashboardFocus()
		}
		return m, nil
	}

	switch m.focus {
	case focusShorten:
		if msg.String() == "enter" {
			return m, m.shorten(m.urlInput.Value())
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd

	case focusSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.urls.SetFilter(m.searchInput.Value())
		m.rebuildRows()
		return m, cmd

	default:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		case "/":
			m.focus = focusSearch
			m.table.Blur()
			m.searchInput.Focus()
			return m, nil
		case "d":
			if record, ok := m.selected(); ok {
				m.confirm = record
				m.view = ConfirmDeleteView
			}
			return m, nil
		case "o":
			if record, ok := m.selected(); ok {
				if err := shared.OpenBrowser(record.OriginalURL); err != nil {
					m.setToast("Failed to open browser", true)
				}
			}
			return m, nil
		case "c":
			if record, ok := m.selected(); ok {
				if err := clipboard.WriteAll(record.ShortURL); err != nil {
					m.setToast("Failed to copy", true)
				} else {
					m.setToast("Copied to clipboard!", false)
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		id := m.confirm.ID
		m.view = DashboardView
		m.confirm = models.ShortURL{}
		return m, m.remove(id)
	case "n", "esc", "q":
		m.view = DashboardView
		m.confirm = models.ShortURL{}
		return m, nil
	}
	return m, nil
}

func (m *Model) cycleDashboardFocus() {
	m.urlInput.Blur()
	m.searchInput.Blur()
	m.table.Blur()

	m.focus = (m.focus + 1) % 3
	switch m.focus {
	case focusShorten:
		m.urlInput.Focus()
	case focusSearch:
		m.searchInput.Focus()
	case focusTable:
		m.table.Focus()
	}
}

func (m *Model) focusLogin(i int) {
	m.loginFocus = i
	for j := range m.loginInputs {
		if j == i {
			m.loginInputs[j].Focus()
		} else {
			m.loginInputs[j].Blur()
		}
	}
}

func (m *Model) focusRegister(i int) {
	m.regFocus = i
	for j := range m.regInputs {
		if j == i {
			m.regInputs[j].Focus()
		} else {
			m.regInputs[j].Blur()
		}
	}
}

// rebuildRows recomputes the filtered projection and mirrors it into the
// table. The projection is derived, never stored back into the collection.
func (m *Model) rebuildRows() {
	m.visible = m.urls.Visible()
	rows := make([]table.Row, len(m.visible))
	for i, record := range m.visible {
		created := ""
		if !record.CreatedAt.IsZero() {
			created = record.CreatedAt.Local().Format("2006-01-02")
		}
		rows[i] = table.Row{record.ShortURL, record.OriginalURL, strconv.Itoa(record.Clicks), created}
	}
	m.table.SetRows(rows)
}

func (m *Model) selected() (models.ShortURL, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return models.ShortURL{}, false
	}
	return m.visible[cursor], true
}

func (m *Model) setToast(text string, isErr bool) {
	m.toast = text
	m.toastErr = isErr
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		return sessionCheckedMsg{state: m.session.Check(m.ctx)}
	}
}

func (m *Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SignIn(m.ctx, email, password); err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m *Model) signUp(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SignUp(m.ctx, name, email, password); err != nil {
			return errMsg{err}
		}
		return registeredMsg{}
	}
}

func (m *Model) googleSignIn() tea.Cmd {
	if m.google == nil {
		return func() tea.Msg {
			return errMsg{shared.ErrMissingConfig}
		}
	}
	return func() tea.Msg {
		credential, err := m.google.Credential(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		if err := m.session.GoogleSignIn(m.ctx, credential); err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m *Model) logOut() tea.Cmd {
	return func() tea.Msg {
		m.session.LogOut(m.ctx)
		return loggedOutMsg{}
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.urls.Refresh(m.ctx)}
	}
}

func (m *Model) shorten(longURL string) tea.Cmd {
	return func() tea.Msg {
		return shortenedMsg{err: m.urls.Shorten(m.ctx, longURL)}
	}
}

func (m *Model) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{err: m.urls.Remove(m.ctx, id)}
	}
}
