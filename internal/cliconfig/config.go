// Package cliconfig loads the embedctl TOML configuration.
package cliconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"vidembed/internal/domain"
)

// Config holds embedctl settings. Precedence is defaults < file < flags.
type Config struct {
	ServerURL          string  `toml:"server_url"`
	CTAText            string  `toml:"cta_text"`
	CTALink            string  `toml:"cta_link"`
	ContainerID        string  `toml:"container_id"`
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
	FFProbePath        string  `toml:"ffprobe_path"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	Debug              bool    `toml:"debug"`
}

func Default() *Config {
	return &Config{
		ServerURL:          "http://localhost:8080",
		CTAText:            domain.DefaultCTAText,
		ContainerID:        "video-widget",
		MaxDurationSeconds: domain.DefaultMaxDurationSeconds,
		TimeoutSeconds:     60,
	}
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidembed"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vidembed"), nil
}

// Path returns the location of config.toml.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file from the OS filesystem. A missing file yields defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(afero.NewOsFs(), path)
}

// LoadFile merges the TOML file at path over the defaults and validates the result.
func LoadFile(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an absolute http(s) URL, got %q", c.ServerURL)
	}
	if c.CTALink != "" {
		if _, err := url.Parse(c.CTALink); err != nil {
			return fmt.Errorf("cta_link: %w", err)
		}
	}
	if strings.TrimSpace(c.ContainerID) == "" {
		return errors.New("container_id cannot be empty")
	}
	if c.MaxDurationSeconds <= 0 {
		return fmt.Errorf("max_duration_seconds must be positive, got %v", c.MaxDurationSeconds)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}

// WidgetOptions maps the CTA and duration settings onto widget config overrides.
func (c *Config) WidgetOptions() []domain.WidgetOption {
	return []domain.WidgetOption{
		domain.WithCTAText(c.CTAText),
		domain.WithCTALink(c.CTALink),
		domain.WithHostContainer(c.ContainerID),
		domain.WithMaxDuration(c.MaxDurationSeconds),
	}
}
