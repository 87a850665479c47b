package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/utils/errutil"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// Dispatch runs task in its own goroutine with a background context carrying the caller's
// logger, so it outlives the request. Errors and panics are reported through errutil under name.
func Dispatch(ctx context.Context, name string, task func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx).With("task", name))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in background task", goerr.V("panic", r)), name)
			}
		}()

		if err := task(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, name)
		}
	}()
}
