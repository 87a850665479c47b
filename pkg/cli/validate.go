package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/cli/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var assessmentCfg config.Assessment

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the assessment configuration file",
		Flags:   assessmentCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := loadLocalSession(ctx, &assessmentCfg)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			catalog := session.Catalog()
			maxScore := 0
			for _, criterion := range catalog.Criteria() {
				best := 0
				for _, opt := range criterion.Options {
					switch session.Modes().ModeOf(criterion.ID) {
					case types.SelectionModeMultiple:
						best += opt.Points
					default:
						best = max(best, opt.Points)
					}
				}
				maxScore += best

				logging.Default().Debug("Criterion validated",
					"id", criterion.ID,
					"category", criterion.Category,
					"mode", session.Modes().ModeOf(criterion.ID),
					"options", len(criterion.Options))
			}

			thresholds := session.Thresholds()
			if maxScore < thresholds.Moderate {
				logging.Default().Warn("HIGH tier is unreachable with the configured criteria",
					"max_score", maxScore,
					"moderate", thresholds.Moderate)
			}

			w := c.Root().Writer
			_, _ = fmt.Fprintf(w, "%s: OK (%d criteria, max score %d)\n", assessmentCfg.Path(), catalog.Len(), maxScore)
			for _, band := range thresholds.Bands() {
				if band.Unbounded {
					_, _ = fmt.Fprintf(w, "  %-8s %d+\n", band.Tier, band.Min)
					continue
				}
				_, _ = fmt.Fprintf(w, "  %-8s %d-%d\n", band.Tier, band.Min, band.Max-1)
			}
			return nil
		},
	}
}
