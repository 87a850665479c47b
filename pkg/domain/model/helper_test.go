package model_test

import (
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
)

// scenarioCriteria is the two-criterion catalog used across the scoring tests
func scenarioCriteria() []config.Criterion {
	return []config.Criterion{
		{
			ID:       "income",
			Category: "Income",
			Options: []config.Option{
				{ID: "a", Label: "A", Points: 0},
				{ID: "b", Label: "B", Points: 5},
				{ID: "c", Label: "C", Points: 10},
			},
		},
		{
			ID:       "source",
			Category: "Source",
			Options: []config.Option{
				{ID: "d", Label: "D", Points: 0},
				{ID: "e", Label: "E", Points: 8},
			},
		},
		{
			ID:       "occupations",
			Category: "Occupations",
			Options: []config.Option{
				{ID: "f", Label: "F", Points: 3},
				{ID: "g", Label: "G", Points: 4},
				{ID: "h", Label: "H", Points: 6},
			},
		},
	}
}

var scenarioThresholds = config.ThresholdTable{Low: 10, Moderate: 16, High: 19}

var scenarioModes = map[string]string{"occupations": "multiple"}
