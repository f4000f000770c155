package logger

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/config"
)

// New returns a configured zerolog.Logger.
func New(cfg *config.Config) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	lvl := zerolog.InfoLevel
	if cfg.IsDevelopment() {
		lvl = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(out).With().Timestamp().Logger()
}
