package tui

import (
	"context"
	"time"

	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"
	"jendo-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Backend is everything the screens call on the API.
type Backend interface {
	reports.Backend
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Logout(ctx context.Context) error
	WellnessRecommendations(ctx context.Context, riskLevel string) ([]model.WellnessRecommendation, error)
	Doctors(ctx context.Context, page, size int) (model.Page[model.Doctor], error)
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

type Options struct {
	Backend  Backend
	Session  *session.Context
	Location *time.Location
	Logger   *zap.Logger

	// Glyphs is "unicode" or "ascii".
	Glyphs string
	// OpenCommand overrides the platform URL opener.
	OpenCommand string

	// Start opens the report hierarchy at this item (deep link).
	Start reports.NavParams
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
