package tui

import (
	"time"

	"jendo-cli/internal/reports"
)

const minibufferAutoClearAfter = 4 * time.Second

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
	m.minibufferSetAt = time.Now()
}

func (m *appModel) showError(text string) {
	m.showMinibuffer(text)
	m.minibufferErr = true
}

func (m *appModel) showNotice(n reports.Notice) {
	if n.IsError() {
		m.showError(n.Text)
		return
	}
	m.showMinibuffer(n.Text)
}

func (m *appModel) expireMinibuffer(now time.Time) {
	if m.minibufferText == "" {
		return
	}
	if now.Sub(m.minibufferSetAt) >= minibufferAutoClearAfter {
		m.minibufferText = ""
		m.minibufferErr = false
	}
}

func (m appModel) renderMinibuffer() string {
	if m.minibufferText == "" {
		return ""
	}
	if m.minibufferErr {
		return styleError().Render(m.minibufferText)
	}
	return styleSuccess().Render(m.minibufferText)
}
