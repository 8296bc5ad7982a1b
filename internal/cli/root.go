package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jendo-cli/internal/api"
	"jendo-cli/internal/config"
	"jendo-cli/internal/format"
	"jendo-cli/internal/logging"
	"jendo-cli/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	APIURL     string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg    *config.Config
	logger *zap.Logger
	sess   *session.Context
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "jendo",
		Short:         "Jendo health client (TUI + scriptable CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  jendo

  # Sign in once; the CLI and TUI share the session
  jendo login --email you@example.com --password '...'

  # Walk the report hierarchy
  jendo reports categories
  jendo reports values 42 --format table

  # Open the TUI at one item (shortcut for: jendo open my-reports/1/7/42)
  jendo my-reports/1/7/42
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "API base URL (overrides config and JENDO_API_URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("JENDO_FORMAT", "json"), "Output format (json|edn|table)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newReportsCmd(app))
	cmd.AddCommand(newDoctorsCmd(app))
	cmd.AddCommand(newAppointmentsCmd(app))
	cmd.AddCommand(newWellnessCmd(app))
	cmd.AddCommand(newNotificationsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup loads config, logger, session and API client once per invocation.
// The TUI logs to a file because the terminal belongs to the program; the
// CLI logs warnings to stderr unless --log-level says otherwise.
func (app *App) setup(ctx context.Context, forTUI bool) error {
	if app.client != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(app.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	level, logPath := cfg.LogLevel, ""
	switch {
	case app.LogLevel != "":
		level = app.LogLevel
	case !forTUI:
		level = "warn"
	}
	if forTUI {
		logPath = filepath.Join(dir, "jendo.log")
	}
	logger, err := logging.New(level, cfg.LogFormat, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store := session.NewStore(dir)
	sess, err := session.Restore(ctx, &store)
	if err != nil {
		// A broken session file must not lock the user out; start signed out.
		logger.Warn("restore session", zap.Error(err))
		sess = session.New(&store)
	}

	app.cfg = cfg
	app.logger = logger
	app.sess = sess
	app.client = api.New(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout(),
		Token:   sess.Token,
	}, logger)
	return nil
}

// signedIn is setup plus the signed-in check every private command needs.
func (app *App) signedIn(ctx context.Context) error {
	if err := app.setup(ctx, false); err != nil {
		return err
	}
	if !app.sess.SignedIn() {
		return errNotSignedIn
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), errorText(err))
	return reportedError{err: err}
}
