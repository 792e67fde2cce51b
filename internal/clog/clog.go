// Package clog provides structured logging for graph runs, spill
// events, and CLI lifecycle, in the call-site shape of the teacher's
// utils.LogJSON(level, msg, ctx) helper but backed by zerolog instead
// of a hand-rolled encoding/json writer.
package clog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Fields is the structured context attached to a log line, mirroring
// the teacher's map[string]interface{} context argument.
type Fields map[string]any

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

func emit(level zerolog.Level, msg string, ctx Fields) {
	ev := logger.WithLevel(level)
	for k, v := range ctx {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Info logs an INFO-level structured event.
func Info(msg string, ctx Fields) { emit(zerolog.InfoLevel, msg, ctx) }

// Error logs an ERROR-level structured event.
func Error(msg string, ctx Fields) { emit(zerolog.ErrorLevel, msg, ctx) }

// Alert logs a WARN-level structured event for failures that do not
// stop the run, such as a spill file that could not be removed.
func Alert(msg string, ctx Fields) { emit(zerolog.WarnLevel, msg, ctx) }
