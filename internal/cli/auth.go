package cli

import (
	"strings"
	"time"

	"jendo-cli/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.setup(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			if password == "" {
				password = envOr("JENDO_PASSWORD", "")
			}
			res, err := app.client.Login(ctx, email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.sess.Begin(ctx, res.Token, res.User); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.User})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (default: $JENDO_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.setup(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			if app.sess.SignedIn() {
				if err := app.client.Logout(ctx); err != nil {
					app.logger.Warn("logout", zap.Error(err))
				}
			}
			if err := app.sess.End(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"signedIn": false}})
		},
	}
}

type whoami struct {
	SignedIn  bool        `json:"signedIn"`
	User      *model.User `json:"user,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	APIURL    string      `json:"apiUrl"`
}

func newWhoamiCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.setup(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			out := whoami{SignedIn: app.sess.SignedIn(), APIURL: app.client.BaseURL()}
			if u, ok := app.sess.User(); ok {
				out.User = &u
			}
			if out.SignedIn && remote {
				u, err := app.client.Me(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				out.User = &u
			}
			c := app.sess.Claims()
			out.Subject = strings.TrimSpace(c.Subject)
			if !c.ExpiresAt.IsZero() {
				exp := c.ExpiresAt.UTC()
				out.ExpiresAt = &exp
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server instead of the stored session")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.client.Profile(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
}
