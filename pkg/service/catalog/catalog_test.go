package catalog_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/service/catalog"
	"github.com/secmon-lab/riskscore/pkg/usecase"
)

func newStatic() *catalog.Static {
	return catalog.New(
		[]config.Criterion{
			{ID: "customer-type", Category: "Customer type", Options: []config.Option{
				{ID: "individual", Label: "Individual", Points: 0},
				{ID: "company", Label: "Company", Points: 5},
			}},
			{ID: "occupations", Category: "Occupations", Options: []config.Option{
				{ID: "lawyer", Label: "Lawyer", Points: 3},
			}},
		},
		map[string]string{"occupations": "multiple"},
		config.ThresholdTable{Low: 10, Moderate: 16, High: 19},
	)
}

func TestStatic_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newStatic()

	criteria, err := store.GetCriteria(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, criteria).Length(2)
	criteria[0].Options[0].Points = 100

	selection, err := store.GetSelectionConfig(ctx)
	gt.NoError(t, err).Required()
	selection["customer-type"] = "multiple"

	again, err := store.GetCriteria(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, again[0].Options[0].Points).Equal(0)

	selectionAgain, err := store.GetSelectionConfig(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, len(selectionAgain)).Equal(1)
}

func TestStatic_LoadsSession(t *testing.T) {
	session, err := usecase.LoadSession(context.Background(), newStatic())
	gt.NoError(t, err).Required()

	gt.Value(t, session.Catalog().Len()).Equal(2)
	gt.Value(t, session.Thresholds().Moderate).Equal(16)
}
