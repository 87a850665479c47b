package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskscore/pkg/controller/http"
	"github.com/secmon-lab/riskscore/pkg/usecase"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const shutdownGracePeriod = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var assessmentCfg config.Assessment
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKSCORE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for the application, used for links in notifications (e.g., https://your-domain.com)",
			Sources:     cli.EnvVars("RISKSCORE_BASE_URL"),
			Destination: &baseURL,
		},
	}

	// Add shared config flags
	flags = append(flags, assessmentCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := loadLocalSession(ctx, &assessmentCfg)
			if err != nil {
				return err
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var ucOpts []usecase.Option
			notifier, err := slackCfg.Configure(baseURL)
			if err != nil {
				return err
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notification enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, session, ucOpts...)

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			logging.Default().Info("Starting HTTP server",
				"addr", addr,
				"config", assessmentCfg.Path(),
				"repository", repoCfg,
				"criteria", session.Catalog().Len())
			return listenAndServe(ctx, server)
		},
	}
}

// listenAndServe runs server until it fails or the process receives SIGINT/SIGTERM, then shuts
// it down with a grace period
func listenAndServe(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Default().Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}
	logging.Default().Info("Server shutdown completed")
	return nil
}
