package model

import (
	"slices"

	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// HasChanges reports whether an edited assessment differs from its persisted original.
// Option lists are compared as sets, so selection order and duplicates do not count as changes;
// the subject name is compared verbatim.
func HasChanges(original, updated []types.OptionID, originalName, updatedName string) bool {
	if originalName != updatedName {
		return true
	}
	return !slices.Equal(normalizeIDs(original), normalizeIDs(updated))
}

func normalizeIDs(ids []types.OptionID) []types.OptionID {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
