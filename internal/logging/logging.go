// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging builds the command's structured logger and an event
// handler plug-in which logs the progress of analysis executions.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Faris196/stockhealth"
	"github.com/Faris196/stockhealth/request"
)

// New returns a logger writing colorized text records at or above
// level to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel converts a level name (debug, info, warn or error) into a
// slog.Level. The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Install adds handlers to g which log every attempt, attempt timeout,
// retry and final outcome of a plan execution to logger.
func Install(g *stockhealth.HandlerGroup, logger *slog.Logger) {
	h := stockhealth.HandlerFunc(func(evt stockhealth.Event, e *request.Execution) {
		switch evt {
		case stockhealth.BeforeAttempt:
			logger.Debug("sending analysis request", attrs(e)...)
		case stockhealth.AfterAttemptTimeout:
			logger.Warn("analysis attempt timed out", attrs(e)...)
		case stockhealth.BeforeRetryWait:
			logger.Info("retrying analysis",
				append(attrs(e),
					"wait", e.Wait,
					"kind", e.Failure.Kind.String(),
					"status", e.StatusCode())...)
		case stockhealth.AfterExecutionEnd:
			args := append(attrs(e),
				"attempts", e.AttemptsUsed(),
				"duration", e.Duration().Round(time.Millisecond))
			if e.Err == nil {
				logger.Info("analysis succeeded", args...)
				return
			}
			args = append(args, "status", e.StatusCode(), "error", e.Err)
			var rerr *request.Error
			if errors.As(e.Err, &rerr) {
				args = append(args, "cause", rerr.Cause.String())
			}
			logger.Warn("analysis failed", args...)
		}
	})

	g.PushBack(stockhealth.BeforeAttempt, h)
	g.PushBack(stockhealth.AfterAttemptTimeout, h)
	g.PushBack(stockhealth.BeforeRetryWait, h)
	g.PushBack(stockhealth.AfterExecutionEnd, h)
}

func attrs(e *request.Execution) []any {
	return []any{
		"symbol", e.Symbol(),
		"attempt", e.Attempt + 1,
		"request_id", e.Plan.RequestID(),
	}
}

// isTerminal reports whether w is a character device, so that color
// escapes only go to interactive output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}

	return fi.Mode()&os.ModeCharDevice != 0
}
