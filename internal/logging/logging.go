// Package logging configures the process-wide zerolog logger. Diagnostic
// output goes to stderr and never carries generated secrets.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for the given verbosity level:
// 0 warn, 1 info, 2 debug, 3 and above trace.
func Setup(verbosity int, w io.Writer) {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// LevelFor maps a -v count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Stage logs the start of a pipeline stage at debug level and returns a
// function that logs its completion with the elapsed time.
func Stage(logger zerolog.Logger, stage string) func() {
	start := time.Now()
	logger.Debug().Str("stage", stage).Msg("Stage started")

	return func() {
		logger.Debug().
			Str("stage", stage).
			Dur("duration", time.Since(start)).
			Msg("Stage completed")
	}
}
