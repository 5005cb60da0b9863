package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging configures the global zerolog logger from cfg.
func setupLogging(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if !strings.EqualFold(cfg.LogFormat, "json") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	refreshComponentLoggers()
}

// Component loggers are derived from the global logger and rebuilt whenever
// setupLogging replaces it.
var (
	aiLogger     zerolog.Logger
	gameLogger   zerolog.Logger
	wsLogger     zerolog.Logger
	bookLogger   zerolog.Logger
	scoresLogger zerolog.Logger
	serverLogger zerolog.Logger
)

func init() {
	refreshComponentLoggers()
}

func refreshComponentLoggers() {
	aiLogger = componentLogger("ai")
	gameLogger = componentLogger("game")
	wsLogger = componentLogger("ws")
	bookLogger = componentLogger("book")
	scoresLogger = componentLogger("scores")
	serverLogger = componentLogger("server")
}

func componentLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
