// Package errutil is the single place where errors leave the program: it logs them with their
// goerr context and reports server faults to Sentry.
package errutil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// Handle logs err under msg and reports it to Sentry. It returns err unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	logging.From(ctx).Error(msg, attrs(err)...)
	capture(ctx, err)
	return err
}

// HandleHTTP writes err as a plain text response with statusCode. Client errors (4xx) are
// logged at warn and never reach Sentry.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
		capture(ctx, err)
	}
	logging.From(ctx).Log(ctx, level, "request failed", append([]any{"status", statusCode}, attrs(err)...)...)

	http.Error(w, err.Error(), statusCode)
}

func attrs(err error) []any {
	out := []any{"error", err.Error()}
	if ge := goerr.Unwrap(err); ge != nil {
		out = append(out, "values", ge.Values(), "stack", ge.Stacks())
	}
	return out
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() != nil {
		hub.CaptureException(err)
	}
}
