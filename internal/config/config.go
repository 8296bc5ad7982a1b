package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL   = "https://jendo.mytodoo.com/api"
	DefaultTimeout  = 15 * time.Second
	DefaultTimezone = "Asia/Colombo"
)

// Config is the user-level client configuration stored in ~/.jendo/config.json.
type Config struct {
	// APIURL is the REST base URL, including the /api prefix.
	APIURL string `json:"apiUrl,omitempty"`

	// TimeoutSeconds bounds every request; zero means DefaultTimeout.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`

	// Timezone is used for display dates and for the "today" of new records.
	Timezone string `json:"timezone,omitempty"`

	LogLevel  string `json:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty"`

	// TUI holds optional preferences for the interactive client.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// OpenCommand overrides the platform opener for attachment URLs.
	OpenCommand string `json:"openCommand,omitempty"`
}

func Default() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		Timezone: DefaultTimezone,
		LogLevel: "info",
	}
}

func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	name := DefaultTimezone
	if c != nil && strings.TrimSpace(c.Timezone) != "" {
		name = strings.TrimSpace(c.Timezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.jendo).
	if v := strings.TrimSpace(os.Getenv("JENDO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jendo"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load returns the effective configuration:
// defaults, then config.json, then .env (never overriding real env), then JENDO_* env vars.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	// .env is optional; a missing file is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadFile reads config.json on top of the defaults, without env overrides.
func LoadFile() (*Config, error) {
	cfg := Default()
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := getEnv("JENDO_API_URL", ""); v != "" {
		cfg.APIURL = v
	}
	if v := getEnv("JENDO_TIMEOUT", ""); v != "" {
		cfg.TimeoutSeconds = parseInt(v, cfg.TimeoutSeconds)
	}
	if v := getEnv("JENDO_TZ", ""); v != "" {
		cfg.Timezone = v
	}
	if v := getEnv("JENDO_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("JENDO_LOG_FORMAT", ""); v != "" {
		cfg.LogFormat = v
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
}

func getEnv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func parseInt(s string, d int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return d
	}
	return n
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename: the CLI and the TUI may write concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
