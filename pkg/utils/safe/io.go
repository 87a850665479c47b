package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// Close closes c and logs a failure with the resource name. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer, resource string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", "resource", resource, "error", err)
	}
}

// Write writes data to w; the response is already committed, so a failure is only logged.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write response", "bytes", len(data), "error", err)
	}
}
