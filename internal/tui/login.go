package tui

import (
	"strings"

	"jendo-cli/internal/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func newLoginInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 254
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

func (m *appModel) setLoginFocus(i int) {
	m.loginFocus = i
	if i == 0 {
		m.email.Focus()
		m.password.Blur()
		return
	}
	m.password.Focus()
	m.email.Blur()
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.setLoginFocus(1 - m.loginFocus)
		return m, textinput.Blink
	case "enter":
		if m.loginFocus == 0 {
			m.setLoginFocus(1)
			return m, textinput.Blink
		}
		return m, m.submitLogin()
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *appModel) submitLogin() tea.Cmd {
	if m.loggingIn {
		return nil
	}
	m.loggingIn = true
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	b, ctx := m.backend, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := b.Login(ctx, email, password)
		return loginMsg{result: res, err: err}
	})
}

func (m appModel) applyLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	m.observe(msg.err)
	if msg.err != nil {
		m.showError(api.Message(msg.err, "Login failed. Please try again."))
		return m, nil
	}
	if err := m.sess.Begin(m.ctx, msg.result.Token, msg.result.User); err != nil {
		m.logger.Warn("save session", zap.Error(err))
		m.showError("Signed in, but the session could not be saved")
	} else {
		m.showMinibuffer("Welcome, " + msg.result.User.DisplayName())
	}
	m.password.SetValue("")
	m.email.Blur()
	m.password.Blur()
	m.resetTo(viewHome)
	return m, m.loadNotifications()
}

func (m *appModel) logout() tea.Cmd {
	b, ctx := m.backend, m.ctx
	return func() tea.Msg { return logoutMsg{err: b.Logout(ctx)} }
}

func (m appModel) renderLogin() string {
	label := lipgloss.NewStyle().Width(10)
	field := func(in textinput.Model) string {
		return lipgloss.NewStyle().Background(colorInputBg).Width(in.Width + 1).Render(in.View())
	}
	status := ""
	if m.loggingIn {
		status = m.spinner.View() + " Signing in…"
	}
	return strings.Join([]string{
		styleTitle().Render("Sign in to Jendo"),
		"",
		label.Render("Email") + field(m.email),
		label.Render("Password") + field(m.password),
		"",
		status,
	}, "\n")
}
