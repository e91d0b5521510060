// Package logging builds the process logger from the [log] config table.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/config"
)

// NewLogger returns a logger writing to stderr at the configured level and format.
func NewLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
	return logger, nil
}

// Printf adapts a logger to printf-style sinks such as gorm's. Those sinks are configured to
// emit only slow queries and errors, so lines are logged at warn level.
type Printf struct {
	Logger *logrus.Logger
}

func (p Printf) Printf(format string, args ...any) {
	p.Logger.Warnf(format, args...)
}
