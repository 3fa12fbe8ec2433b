// Package bootstrap resolves the data directory, configuration, logger and settings
// store shared by the desktop shell and the konnyakuctl tool.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/konnyaku-app/konnyaku/internal/config"
	"github.com/konnyaku-app/konnyaku/internal/desktop"
	"github.com/konnyaku-app/konnyaku/internal/logging"
	"github.com/konnyaku-app/konnyaku/internal/repository/cached"
	"github.com/konnyaku-app/konnyaku/internal/repository/gormdb"
	"github.com/konnyaku-app/konnyaku/internal/version"
)

// DatabaseFileName is the SQLite file used when no DSN is configured.
const DatabaseFileName = "konnyaku.db"

const (
	flagDataDir  = "data-dir"
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagDSN      = "dsn"
)

// Flags are the startup options common to every binary.
type Flags struct {
	DataDir    string
	ConfigPath string
	LogLevel   string
	DSN        string
	// Console mirrors log output to stderr.
	Console bool
}

// CLIFlags returns the urfave/cli definitions for Flags. Environment variables are
// consulted when a flag is not given.
func CLIFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagDataDir,
			Usage:   "directory for the database, logs and config (default: $XDG_DATA_HOME/konnyaku)",
			EnvVars: []string{config.EnvDataDir},
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "path to the TOML config file (default: <data-dir>/" + config.FileName + ")",
			EnvVars: []string{config.EnvConfig},
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "log level: debug, info, warn, error (overrides the config file)",
			EnvVars: []string{config.EnvLogLevel},
		},
		&cli.StringFlag{
			Name:    flagDSN,
			Usage:   "database DSN: sqlite path, mysql://... or a libpq connection string",
			EnvVars: []string{config.EnvDSN},
		},
	}
}

// FlagsFrom reads the values of CLIFlags from c.
func FlagsFrom(c *cli.Context) Flags {
	return Flags{
		DataDir:    c.String(flagDataDir),
		ConfigPath: c.String(flagConfig),
		LogLevel:   c.String(flagLogLevel),
		DSN:        c.String(flagDSN),
	}
}

// Env is everything resolved at startup.
type Env struct {
	DataDir    string
	ConfigPath string
	Config     config.Config
	InstanceID string
	Log        zerolog.Logger

	DB       *gormdb.DB
	Settings *cached.SettingRepository

	dsn string
}

// Open resolves the data directory, loads the config file and sets up logging. The
// settings store is opened separately by OpenStore.
func Open(f Flags) (*Env, error) {
	dataDir := config.ResolveDataDir(f.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}

	cfgPath := config.ResolvePath(f.ConfigPath, dataDir)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if f.LogLevel != "" {
		levelName = f.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	instanceID := uuid.NewString()
	logCfg := logging.DefaultConfig(dataDir)
	logCfg.Level = level
	logCfg.ConsoleOut = f.Console
	logCfg.PrettyLog = level <= zerolog.DebugLevel
	logCfg.Fields = map[string]string{
		"instance": instanceID,
		"version":  version.Version,
	}
	logger, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	dsn := f.DSN
	if dsn == "" {
		dsn = filepath.Join(dataDir, DatabaseFileName)
	}

	cfgLog := logging.Component(logger, "config")
	cfgLog.Info().
		Str("data_dir", dataDir).
		Str("config", cfgPath).
		Msg("configuration loaded")

	return &Env{
		DataDir:    dataDir,
		ConfigPath: cfgPath,
		Config:     cfg,
		InstanceID: instanceID,
		Log:        logger,
		dsn:        dsn,
	}, nil
}

// OpenStore connects to the database and warms the settings cache.
func (e *Env) OpenStore() error {
	db, err := gormdb.NewDBWithDSN(e.dsn, logging.Component(e.Log, "db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	settings := cached.NewSettingRepository(gormdb.NewSettingRepository(db))
	if err := settings.Load(); err != nil {
		db.Close()
		return fmt.Errorf("load settings: %w", err)
	}
	e.DB = db
	e.Settings = settings
	return nil
}

// DefaultPreferences are the shell preferences used for keys never persisted.
func (e *Env) DefaultPreferences() desktop.Preferences {
	d := e.Config.Defaults
	return desktop.Preferences{
		ShowDockIcon:    d.ShowDockIcon,
		ShowStatusIcon:  d.ShowStatusIcon,
		CloseOnExit:     d.CloseOnExit,
		DevtoolsEnabled: d.DevtoolsEnabled,
	}
}

// Close releases the database.
func (e *Env) Close() error {
	if e.DB == nil {
		return nil
	}
	return e.DB.Close()
}
