package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/cli/config"
	"github.com/secmon-lab/riskscore/pkg/controller/term"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/service/riskapi"
	"github.com/secmon-lab/riskscore/pkg/usecase"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var (
		serverURL     string
		role          string
		branch        string
		editID        string
		noColor       bool
		assessmentCfg config.Assessment
		repoCfg       config.Repository
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Usage:       "riskscore server URL. The configuration file and repository flags are used when empty",
			Sources:     cli.EnvVars("RISKSCORE_SERVER"),
			Destination: &serverURL,
		},
		&cli.StringFlag{
			Name:        "role",
			Usage:       "Operator role [admin|officer]",
			Value:       string(types.RoleAdmin),
			Sources:     cli.EnvVars("RISKSCORE_ROLE"),
			Destination: &role,
		},
		&cli.StringFlag{
			Name:        "branch",
			Aliases:     []string{"b"},
			Usage:       "Branch ID. Officers are bound to it; admins get it prefilled",
			Sources:     cli.EnvVars("RISKSCORE_BRANCH"),
			Destination: &branch,
		},
		&cli.StringFlag{
			Name:        "edit",
			Usage:       "Edit the assessment with this ID instead of creating one",
			Destination: &editID,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Destination: &noColor,
		},
	}
	flags = append(flags, assessmentCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Run the interactive assessment wizard",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			parsedRole, err := types.ParseRole(role)
			if err != nil {
				return goerr.Wrap(usecase.ErrUnknownRole, err.Error(), goerr.V(usecase.RoleKey, role))
			}
			caps, err := usecase.ResolveCapabilities(parsedRole)
			if err != nil {
				return err
			}

			// Officers only ever see their own branch
			var scope types.BranchID
			if parsedRole == types.RoleOfficer {
				if branch == "" {
					return goerr.New("--branch is required for the officer role")
				}
				scope = types.BranchID(branch)
			}

			var (
				session *usecase.Session
				gateway interfaces.AssessmentGateway
			)

			if serverURL != "" {
				var opts []riskapi.Option
				if scope != "" {
					opts = append(opts, riskapi.WithBranch(scope))
				}
				client, err := riskapi.New(serverURL, caps.Endpoints.Collection(), opts...)
				if err != nil {
					return err
				}
				if session, err = usecase.LoadSession(ctx, client); err != nil {
					return err
				}
				gateway = client
				logging.Default().Debug("Using remote record store", "server", serverURL, "endpoint", caps.Endpoints.Collection())
			} else {
				if session, err = loadLocalSession(ctx, &assessmentCfg); err != nil {
					return err
				}
				repo, err := repoCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize repository")
				}
				defer func() {
					if err := repo.Close(); err != nil {
						logging.Default().Error("failed to close repository", "error", err.Error())
					}
				}()
				uc := usecase.New(repo, session)
				gateway = usecase.NewLocalGateway(uc.Assessment, scope)
			}

			var wizard *usecase.Wizard
			if editID != "" {
				wizard, err = usecase.NewEditWizard(ctx, session, gateway, caps.RequireBranch, types.AssessmentID(editID))
				if err != nil {
					return err
				}
			} else {
				wizard = usecase.NewWizard(session, gateway, caps.RequireBranch)
				if caps.RequireBranch && branch != "" {
					if err := wizard.SetSubject("", types.BranchID(branch)); err != nil {
						return err
					}
				}
			}

			var opts []term.Option
			if noColor {
				opts = append(opts, term.WithoutColor())
			}
			root := c.Root()
			if _, err := term.New(root.Reader, root.Writer, opts...).Run(ctx, wizard); err != nil {
				return err
			}
			return nil
		},
	}
}
