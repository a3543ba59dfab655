// Package logger builds the process logger on top of httplog so request logs and application logs share one zerolog setup
package logger

import (
	"strings"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Service string
	Level   string
	JSON    bool
}

// New returns the root logger for service
func New(opt Options) zerolog.Logger {
	level := strings.ToLower(strings.TrimSpace(opt.Level))
	if _, err := zerolog.ParseLevel(level); err != nil || level == "" {
		level = "info"
	}

	return httplog.NewLogger(opt.Service, httplog.Options{
		JSON:     opt.JSON,
		LogLevel: level,
		Concise:  !opt.JSON,
	})
}
