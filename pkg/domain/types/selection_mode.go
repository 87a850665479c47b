package types

import "fmt"

// SelectionMode is the answer cardinality of a criterion
type SelectionMode string

const (
	SelectionModeSingle   SelectionMode = "single"
	SelectionModeMultiple SelectionMode = "multiple"
)

// AllSelectionModes returns all valid selection modes
func AllSelectionModes() []SelectionMode {
	return []SelectionMode{
		SelectionModeSingle,
		SelectionModeMultiple,
	}
}

// IsValid checks if the selection mode is valid
func (m SelectionMode) IsValid() bool {
	switch m {
	case SelectionModeSingle, SelectionModeMultiple:
		return true
	default:
		return false
	}
}

// String returns the string representation of the selection mode
func (m SelectionMode) String() string {
	return string(m)
}

// ParseSelectionMode parses a string into a SelectionMode
func ParseSelectionMode(s string) (SelectionMode, error) {
	mode := SelectionMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid selection mode: %s", s)
	}
	return mode, nil
}
