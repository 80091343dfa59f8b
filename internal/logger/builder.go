package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder assembles a Logger from Options.
type LoggerBuilder struct {
	opts    Options
	factory *WriterFactory
	err     error
}

func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		opts:    defaultOptions(),
		factory: NewWriterFactory(),
	}
}

// WithConfig applies log_config. An unknown level falls back to info; the
// console destination set earlier is preserved.
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	opts, _ := OptionsFromConfig(cfg)
	opts.ConsoleOut = lb.opts.ConsoleOut
	lb.opts = opts
	return lb
}

func (lb *LoggerBuilder) WithLevel(level zerolog.Level) *LoggerBuilder {
	lb.opts.Level = level
	return lb
}

func (lb *LoggerBuilder) WithFormat(format Format) *LoggerBuilder {
	lb.opts.Format = format
	return lb
}

func (lb *LoggerBuilder) WithConsole(enabled bool) *LoggerBuilder {
	lb.opts.Console = enabled
	return lb
}

// WithConsoleOutput points the console sink at out instead of stderr.
func (lb *LoggerBuilder) WithConsoleOutput(out io.Writer) *LoggerBuilder {
	lb.opts.ConsoleOut = out
	return lb
}

func (lb *LoggerBuilder) WithFile(path string, maxSizeMB, maxBackups int) *LoggerBuilder {
	lb.opts.File = path
	lb.opts.MaxSizeMB = maxSizeMB
	lb.opts.MaxBackups = maxBackups
	return lb
}

// Build creates the logger and routes the standard log package through it.
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if lb.opts.File != "" && lb.opts.MaxSizeMB <= 0 {
		return nil, common.NewValidationError("max_log_size_mb", lb.opts.MaxSizeMB, "must be positive")
	}

	var writers []io.Writer
	var closers []io.Closer
	if lb.opts.Console {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.opts.Format, lb.opts.ConsoleOut))
	}
	if lb.opts.File != "" {
		w, c := lb.factory.CreateFileWriter(lb.opts)
		writers = append(writers, w)
		closers = append(closers, c)
	}
	if len(writers) == 0 {
		return nil, common.NewError("no output writers configured")
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.opts.Level).
		With().
		Timestamp().
		Logger()

	// net/http reports TLS and HTTP/2 trouble through the standard logger
	stdlog.SetOutput(zl)
	stdlog.SetFlags(0)

	return &Logger{zerolog: zl, opts: lb.opts, closers: closers}, nil
}
