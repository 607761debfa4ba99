// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the logrus logger used by bot-trainer.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// New builds a logger from cfg. Output "stderr" (or empty) uses stderr,
// "stdout" uses stdout, and anything else is opened as an append-only file.
// The returned closer releases the file when one was opened. An invalid
// level falls back to info with a warning.
func New(cfg types.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.Output, err)
		}
		out, closer = f, f
	}

	return Configure(logrus.New(), cfg, out), closer, nil
}

// Configure applies level and format from cfg to logger and directs it to out.
func Configure(logger *logrus.Logger, cfg types.LoggingConfig, out io.Writer) *logrus.Logger {
	logger.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			logger.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		} else {
			level = parsed
		}
	}
	logger.SetLevel(level)

	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
