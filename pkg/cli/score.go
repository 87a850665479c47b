package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/cli/config"
	"github.com/secmon-lab/riskscore/pkg/domain/model/api"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/repository/memory"
	"github.com/secmon-lab/riskscore/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdScore() *cli.Command {
	var assessmentCfg config.Assessment
	var format string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format [text|json]",
			Value:       "text",
			Destination: &format,
		},
	}
	flags = append(flags, assessmentCfg.Flags()...)

	return &cli.Command{
		Name:      "score",
		Usage:     "Score a list of option IDs without storing it",
		ArgsUsage: "OPTION_ID...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if format != "text" && format != "json" {
				return goerr.New("invalid output format", goerr.V("format", format))
			}

			var ids []types.OptionID
			for _, arg := range c.Args().Slice() {
				for _, id := range strings.Split(arg, ",") {
					if id = strings.TrimSpace(id); id != "" {
						ids = append(ids, types.OptionID(id))
					}
				}
			}

			session, err := loadLocalSession(ctx, &assessmentCfg)
			if err != nil {
				return err
			}

			uc := usecase.New(memory.New(), session)
			result, err := uc.Assessment.Preview(ctx, ids)
			if err != nil {
				return goerr.Wrap(err, "failed to score options")
			}

			w := c.Root().Writer
			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(api.NewScore(result)); err != nil {
					return goerr.Wrap(err, "failed to write score")
				}
				return nil
			}

			_, _ = fmt.Fprintf(w, "score: %d\ntier: %s\n", result.TotalScore, result.RiskTier)
			if err := session.Validator().ValidateComplete(session.Seed(ctx, ids)); err != nil {
				_, _ = fmt.Fprintln(w, "note: not every criterion is answered")
			}
			return nil
		},
	}
}
