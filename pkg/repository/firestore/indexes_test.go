package firestore_test

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscore/pkg/repository/firestore"
)

func TestIndexConfig(t *testing.T) {
	cfg := firestore.IndexConfig("staging")
	gt.Array(t, cfg.Collections).Length(1)
	gt.Value(t, cfg.Collections[0].Name).Equal("staging_assessments")

	fields := cfg.Collections[0].Indexes[0].Fields
	gt.Array(t, fields).Length(2)
	gt.Value(t, fields[0].Path).Equal("branch_id")
	gt.Value(t, fields[1].Path).Equal("updated_at")
	gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)

	gt.Value(t, firestore.IndexConfig("").Collections[0].Name).Equal("assessments")
}
