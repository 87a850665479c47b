package cli

import (
	"context"

	"github.com/secmon-lab/riskscore/pkg/cli/config"
	"github.com/secmon-lab/riskscore/pkg/utils/errutil"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func newApp(version string) *cli.Command {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "riskscore",
		Usage:   "Configurable risk scoring and assessment engine",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLog, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLog)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting riskscore",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdValidate(),
			cmdScore(),
			cmdAssess(),
			cmdMigrate(),
		},
	}
}

func Run(ctx context.Context, args []string, version string) error {
	if err := newApp(version).Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}
	return nil
}
