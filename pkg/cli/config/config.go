package config

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/service/gcs"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the assessment configuration file
type AppConfig struct {
	Thresholds Thresholds  `toml:"thresholds"`
	Criteria   []Criterion `toml:"criteria"`
}

// Thresholds is the [thresholds] table. High is shown in threshold previews only.
type Thresholds struct {
	Low      int `toml:"low"`
	Moderate int `toml:"moderate"`
	High     int `toml:"high"`
}

// Criterion is one [[criteria]] entry
type Criterion struct {
	ID          string   `toml:"id"`
	Category    string   `toml:"category"`
	Description string   `toml:"description"`
	Mode        string   `toml:"mode"`
	Options     []Option `toml:"options"`
}

// Option is one [[criteria.options]] entry
type Option struct {
	ID     string `toml:"id"`
	Label  string `toml:"label"`
	Points int    `toml:"points"`
}

// Validate checks if the Criterion is valid. Option ID uniqueness across criteria is checked by AppConfig.
func (c *Criterion) Validate() error {
	if err := types.CriterionID(c.ID).Validate(); err != nil {
		return goerr.Wrap(ErrInvalidCriterionID, err.Error(), goerr.V(CriterionIDKey, c.ID))
	}
	if c.Category == "" {
		return goerr.Wrap(ErrMissingName, "criterion category is required", goerr.V(CriterionIDKey, c.ID))
	}
	if c.Mode != "" && !types.SelectionMode(c.Mode).IsValid() {
		return goerr.Wrap(ErrInvalidMode, "mode must be single or multiple",
			goerr.V(CriterionIDKey, c.ID),
			goerr.V(ModeKey, c.Mode))
	}
	if len(c.Options) == 0 {
		return goerr.Wrap(ErrMissingOptions, "criterion has no options", goerr.V(CriterionIDKey, c.ID))
	}

	for i, opt := range c.Options {
		if err := types.OptionID(opt.ID).Validate(); err != nil {
			return goerr.Wrap(ErrInvalidOptionID, err.Error(),
				goerr.V(CriterionIDKey, c.ID),
				goerr.V(OptionIndexKey, i),
				goerr.V(OptionIDKey, opt.ID))
		}
		if opt.Label == "" {
			return goerr.Wrap(ErrMissingName, "option label is required",
				goerr.V(CriterionIDKey, c.ID),
				goerr.V(OptionIDKey, opt.ID))
		}
		if opt.Points < 0 {
			return goerr.Wrap(ErrNegativePoints, "negative points",
				goerr.V(CriterionIDKey, c.ID),
				goerr.V(OptionIDKey, opt.ID),
				goerr.V("points", opt.Points))
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	t := a.Thresholds
	if t.Low < 1 || t.Low >= t.Moderate || t.Moderate >= t.High {
		return goerr.Wrap(ErrInvalidThresholds, "invalid [thresholds]", goerr.V(ThresholdsKey, t))
	}

	if len(a.Criteria) == 0 {
		return goerr.Wrap(ErrNoCriteria, "no [[criteria]] configured")
	}

	criterionIDs := make(map[string]bool)
	optionIDs := make(map[string]string)
	for i, c := range a.Criteria {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid criterion", goerr.V(CriterionIndexKey, i))
		}
		if criterionIDs[c.ID] {
			return goerr.Wrap(ErrDuplicateCriterionID, "found duplicate", goerr.V(CriterionIDKey, c.ID))
		}
		criterionIDs[c.ID] = true

		for _, opt := range c.Options {
			if owner, exists := optionIDs[opt.ID]; exists {
				return goerr.Wrap(ErrDuplicateOptionID, "option IDs must be unique across all criteria",
					goerr.V(OptionIDKey, opt.ID),
					goerr.V(CriterionIDKey, c.ID),
					goerr.V("owner", owner))
			}
			optionIDs[opt.ID] = c.ID
		}
	}

	return nil
}

// ParseAppConfig decodes and validates TOML data
func ParseAppConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "config validation failed")
	}

	return &cfg, nil
}

// LoadAppConfiguration loads the assessment configuration from a local TOML file or a
// gs://bucket/object URL
func LoadAppConfiguration(ctx context.Context, path string) (*AppConfig, error) {
	var (
		data []byte
		err  error
	)

	if gcs.IsURL(path) {
		data, err = readGCS(ctx, path)
	} else {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "no such file", goerr.V(ConfigPathKey, path))
		}
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	cfg, err := ParseAppConfig(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load config", goerr.V(ConfigPathKey, path))
	}

	logging.From(ctx).Debug("assessment configuration loaded",
		"path", path,
		"criteria", len(cfg.Criteria))
	return cfg, nil
}

func readGCS(ctx context.Context, url string) ([]byte, error) {
	reader, err := gcs.New(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logging.From(ctx).Warn("failed to close Cloud Storage client", "error", err)
		}
	}()

	data, err := reader.ReadURL(ctx, url)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, goerr.Wrap(ErrConfigNotFound, "no such object", goerr.V(ConfigPathKey, url))
		}
		return nil, err
	}
	return data, nil
}

// ToDomainCriteria converts the criteria to the domain model, in file order
func (a *AppConfig) ToDomainCriteria() []domainConfig.Criterion {
	criteria := make([]domainConfig.Criterion, len(a.Criteria))
	for i, c := range a.Criteria {
		options := make([]domainConfig.Option, len(c.Options))
		for j, opt := range c.Options {
			options[j] = domainConfig.Option{
				ID:     types.OptionID(opt.ID),
				Label:  opt.Label,
				Points: opt.Points,
			}
		}
		criteria[i] = domainConfig.Criterion{
			ID:          types.CriterionID(c.ID),
			Category:    c.Category,
			Description: c.Description,
			Options:     options,
		}
	}
	return criteria
}

// SelectionConfig returns the explicitly configured modes. Criteria without a mode are single.
func (a *AppConfig) SelectionConfig() map[string]string {
	modes := make(map[string]string)
	for _, c := range a.Criteria {
		if c.Mode != "" {
			modes[c.ID] = c.Mode
		}
	}
	return modes
}

// ToDomainThresholds converts [thresholds]
func (a *AppConfig) ToDomainThresholds() domainConfig.ThresholdTable {
	return domainConfig.ThresholdTable{
		Low:      a.Thresholds.Low,
		Moderate: a.Thresholds.Moderate,
		High:     a.Thresholds.High,
	}
}

// ToSnapshot builds the validated domain snapshot
func (a *AppConfig) ToSnapshot() (*domainConfig.Snapshot, error) {
	return domainConfig.NewSnapshot(a.ToDomainCriteria(), a.SelectionConfig(), a.ToDomainThresholds())
}

// Assessment holds the CLI flag pointing at the assessment configuration
type Assessment struct {
	path string
}

// Flags returns CLI flags for the assessment configuration
func (x *Assessment) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Assessment configuration TOML file (local path or gs://bucket/object)",
			Value:       "./riskscore.toml",
			Sources:     cli.EnvVars("RISKSCORE_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured path
func (x *Assessment) Path() string {
	return x.path
}

// Configure loads and validates the configuration file
func (x *Assessment) Configure(ctx context.Context) (*AppConfig, error) {
	return LoadAppConfiguration(ctx, x.path)
}
