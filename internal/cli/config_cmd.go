package cli

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"jendo-cli/internal/config"

	"github.com/spf13/cobra"
)

type configView struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change client configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	var fileOnly bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			load := config.Load
			if fileOnly {
				load = config.LoadFile
			}
			cfg, err := load()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := config.Path()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": configView{Path: path, Config: cfg}})
		},
	}

	cmd.Flags().BoolVar(&fileOnly, "file", false, "Show config.json only (ignore .env and JENDO_* variables)")
	return cmd
}

// configSetters maps `config set` keys onto the stored file. An empty value
// resets the key to its default.
var configSetters = map[string]func(cfg *config.Config, v string) error{
	"api-url": func(cfg *config.Config, v string) error {
		cfg.APIURL = strings.TrimRight(v, "/")
		if cfg.APIURL == "" {
			cfg.APIURL = config.DefaultAPIURL
		}
		return nil
	},
	"timeout": func(cfg *config.Config, v string) error {
		if v == "" {
			cfg.TimeoutSeconds = 0
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errUsage("invalid timeout %q (expected whole seconds)", v)
		}
		cfg.TimeoutSeconds = n
		return nil
	},
	"timezone": func(cfg *config.Config, v string) error {
		if v == "" {
			cfg.Timezone = config.DefaultTimezone
			return nil
		}
		if _, err := time.LoadLocation(v); err != nil {
			return errUsage("unknown timezone %q", v)
		}
		cfg.Timezone = v
		return nil
	},
	"log-level": func(cfg *config.Config, v string) error {
		switch v {
		case "", "debug", "info", "warn", "error":
			cfg.LogLevel = v
			return nil
		}
		return errUsage("invalid log level %q (expected debug|info|warn|error)", v)
	},
	"log-format": func(cfg *config.Config, v string) error {
		switch v {
		case "", "json", "console":
			cfg.LogFormat = v
			return nil
		}
		return errUsage("invalid log format %q (expected json|console)", v)
	},
	"glyphs": func(cfg *config.Config, v string) error {
		switch v {
		case "", "unicode", "ascii":
			tuiConfig(cfg).Glyphs = v
			return nil
		}
		return errUsage("invalid glyphs %q (expected unicode|ascii)", v)
	},
	"open-command": func(cfg *config.Config, v string) error {
		tuiConfig(cfg).OpenCommand = v
		return nil
	},
}

func tuiConfig(cfg *config.Config) *config.TUIConfig {
	if cfg.TUI == nil {
		cfg.TUI = &config.TUIConfig{}
	}
	return cfg.TUI
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting in config.json",
		Long:      "Keys: " + strings.Join(configKeys(), ", ") + `. Pass "" to reset a key.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := configSetters[args[0]]
			if !ok {
				return writeErr(cmd, errUsage("unknown config key %q (expected one of: %s)", args[0], strings.Join(configKeys(), ", ")))
			}
			cfg, err := config.LoadFile()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := set(cfg, strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if cfg.TUI != nil && *cfg.TUI == (config.TUIConfig{}) {
				cfg.TUI = nil
			}
			if err := config.Save(cfg); err != nil {
				return writeErr(cmd, err)
			}
			path, err := config.Path()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": configView{Path: path, Config: cfg}})
		},
	}
}
