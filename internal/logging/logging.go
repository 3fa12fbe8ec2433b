// Package logging configures the process-wide zerolog logger with a rotating log file
// in the data directory and console output.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogFileName = "konnyaku.log"
	DefaultMaxSizeMB   = 10
	DefaultMaxBackups  = 3
	DefaultMaxAgeDays  = 28

	logDirPermissions = 0o755
)

// Config holds logging configuration options.
type Config struct {
	LogsDir    string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Level      zerolog.Level
	ConsoleOut bool
	PrettyLog  bool
	// Fields are attached to every entry (instance id, version).
	Fields map[string]string
}

// DefaultConfig returns the default configuration for logsDir.
func DefaultConfig(logsDir string) *Config {
	return &Config{
		LogsDir:    logsDir,
		FileName:   DefaultLogFileName,
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   true,
		Level:      zerolog.InfoLevel,
		ConsoleOut: true,
	}
}

// Setup builds the logger described by config and installs it as the global logger.
func Setup(config *Config) (zerolog.Logger, error) {
	if err := os.MkdirAll(config.LogsDir, logDirPermissions); err != nil {
		return log.Logger, err
	}

	writers := []io.Writer{newFileWriter(config)}
	if config.ConsoleOut {
		writers = append(writers, newConsoleWriter(config.PrettyLog))
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(config.Level)

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	for k, v := range config.Fields {
		ctx = ctx.Str(k, v)
	}
	logger := ctx.Logger().Level(config.Level)
	log.Logger = logger

	logger.Info().
		Str("logs_dir", config.LogsDir).
		Str("log_file", config.FileName).
		Str("level", config.Level.String()).
		Msg("logging configured")

	return logger, nil
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// ParseLevel converts a config string to a zerolog level; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(level)
}

func newFileWriter(config *Config) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(config.LogsDir, config.FileName),
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   config.Compress,
	}
}

func newConsoleWriter(pretty bool) io.Writer {
	if pretty {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return os.Stderr
}
