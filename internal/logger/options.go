package logger

import (
	"io"
	"strings"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/rs/zerolog"
)

// Format selects how log records are rendered.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
	FormatText    Format = "text"
)

// Options is the resolved sink setup behind a Logger.
type Options struct {
	Level      zerolog.Level
	Format     Format
	Console    bool
	ConsoleOut io.Writer // nil means os.Stderr
	File       string    // empty disables the rotating file sink
	MaxSizeMB  int
	MaxBackups int
}

func defaultOptions() Options {
	return Options{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		Console:    true,
		MaxSizeMB:  config.DefaultMaxLogSizeMB,
		MaxBackups: config.DefaultMaxLogBackups,
	}
}

// ParseLevel maps a log_level value onto zerolog. Blank is info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat maps a log_format value. Unknown values render as console.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f
	default:
		return FormatConsole
	}
}

// OptionsFromConfig resolves log_config. On a bad level the returned
// options still hold usable defaults alongside the error.
func OptionsFromConfig(cfg config.LogConfig) (Options, error) {
	opts := defaultOptions()
	level, err := ParseLevel(cfg.LogLevel)
	opts.Level = level
	opts.Format = ParseFormat(cfg.LogFormat)
	opts.File = cfg.LogFile
	if cfg.MaxLogSizeMB > 0 {
		opts.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		opts.MaxBackups = cfg.MaxLogBackups
	}
	return opts, err
}
