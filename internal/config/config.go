// Package config loads the shell's startup configuration: data directory resolution,
// the optional TOML config file, and defaults for the persisted shell preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/konnyaku-app/konnyaku/internal/logging"
)

const (
	// AppDirName is the directory created under the XDG data home.
	AppDirName = "konnyaku"
	// FileName is the config file looked up in the data directory.
	FileName = "konnyaku.toml"

	EnvDataDir  = "KONNYAKU_DATA_DIR"
	EnvConfig   = "KONNYAKU_CONFIG"
	EnvLogLevel = "KONNYAKU_LOG_LEVEL"
	EnvDSN      = "KONNYAKU_DSN"
)

// Config is the on-disk configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Window   WindowConfig `toml:"window"`
	Tray     TrayConfig   `toml:"tray"`
	Defaults ShellConfig  `toml:"defaults"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

type TrayConfig struct {
	Tooltip string `toml:"tooltip"`
}

// ShellConfig seeds shell preferences that have never been persisted.
type ShellConfig struct {
	ShowDockIcon    bool `toml:"show_dock_icon"`
	ShowStatusIcon  bool `toml:"show_status_icon"`
	CloseOnExit     bool `toml:"close_on_exit"`
	DevtoolsEnabled bool `toml:"devtools_enabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:     "Konnyaku Translator",
			Width:     960,
			Height:    680,
			MinWidth:  480,
			MinHeight: 360,
		},
		Tray: TrayConfig{Tooltip: "Konnyaku Translator"},
		Defaults: ShellConfig{
			ShowDockIcon:   true,
			ShowStatusIcon: true,
			CloseOnExit:    true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks window geometry and the log level.
func (c Config) Validate() error {
	w := c.Window
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.MinWidth < 0 || w.MinHeight < 0 {
		return fmt.Errorf("window min size must not be negative, got %dx%d", w.MinWidth, w.MinHeight)
	}
	if w.MinWidth > w.Width || w.MinHeight > w.Height {
		return fmt.Errorf("window min size %dx%d exceeds size %dx%d", w.MinWidth, w.MinHeight, w.Width, w.Height)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ResolveDataDir picks the data directory: flag > env var > XDG data home.
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// ResolvePath picks the config file: flag > env var > <dataDir>/konnyaku.toml.
func ResolvePath(flagValue, dataDir string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(dataDir, FileName)
}
