package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// DefaultSelectionMode applies to every criterion that has no explicit selection config.
const DefaultSelectionMode = types.SelectionModeSingle

// SelectionModeRegistry maps criteria to their answer cardinality.
// A nil registry answers DefaultSelectionMode for everything.
type SelectionModeRegistry struct {
	modes map[types.CriterionID]types.SelectionMode
}

// NewSelectionModeRegistry builds the registry from raw selection config.
// Unknown mode values are rejected with ErrConfiguration.
func NewSelectionModeRegistry(raw map[string]string) (*SelectionModeRegistry, error) {
	modes := make(map[types.CriterionID]types.SelectionMode, len(raw))
	for id, value := range raw {
		mode := types.SelectionMode(value)
		if !mode.IsValid() {
			return nil, goerr.Wrap(ErrConfiguration, "invalid selection mode",
				goerr.V(CriterionIDKey, id),
				goerr.V(ModeKey, value))
		}
		modes[types.CriterionID(id)] = mode
	}
	return &SelectionModeRegistry{modes: modes}, nil
}

// ModeOf returns the selection mode of the criterion, DefaultSelectionMode when not configured
func (r *SelectionModeRegistry) ModeOf(id types.CriterionID) types.SelectionMode {
	if r == nil {
		return DefaultSelectionMode
	}
	if mode, ok := r.modes[id]; ok {
		return mode
	}
	return DefaultSelectionMode
}

// Modes returns a copy of the explicitly configured modes
func (r *SelectionModeRegistry) Modes() map[types.CriterionID]types.SelectionMode {
	modes := make(map[types.CriterionID]types.SelectionMode)
	if r == nil {
		return modes
	}
	for id, mode := range r.modes {
		modes[id] = mode
	}
	return modes
}

// UnknownCriteria lists configured criteria that do not exist in the catalog
func (r *SelectionModeRegistry) UnknownCriteria(catalog *Catalog) []types.CriterionID {
	var unknown []types.CriterionID
	if r == nil {
		return unknown
	}
	for id := range r.modes {
		if catalog.IndexOf(id) < 0 {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
