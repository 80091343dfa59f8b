package logger

import (
	"io"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/rs/zerolog"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	opts    Options
	closers []io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Options returns the resolved sink setup.
func (l *Logger) Options() Options {
	return l.opts
}

// Close flushes and closes file sinks
func (l *Logger) Close() error {
	var errs []string
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return common.NewError("closing log sinks: %v", errs)
	}
	return nil
}

// New creates a logger from the application log configuration
func New(cfg config.LogConfig) (*Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
