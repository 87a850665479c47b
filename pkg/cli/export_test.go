package cli

import (
	"context"
	"io"
)

// RunWithIO runs the app with the given stdin and stdout
func RunWithIO(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	app := newApp("test")
	app.Reader = in
	app.Writer = out
	return app.Run(ctx, args)
}
