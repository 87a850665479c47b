package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CriterionID identifies a criterion (question category) in the assessment catalog
type CriterionID string

// Validate checks if the CriterionID is valid
func (c CriterionID) Validate() error {
	if c == "" {
		return goerr.New("criterion ID cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("criterion ID must be lowercase alphanumeric with hyphens", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CriterionID
func (c CriterionID) String() string {
	return string(c)
}

// OptionID identifies a selectable option. Option IDs are unique across the whole catalog.
type OptionID string

// Validate checks if the OptionID is valid
func (o OptionID) Validate() error {
	if o == "" {
		return goerr.New("option ID cannot be empty")
	}
	if !idPattern.MatchString(string(o)) {
		return goerr.New("option ID must be lowercase alphanumeric with hyphens", goerr.V("id", o))
	}
	return nil
}

// String returns the string representation of OptionID
func (o OptionID) String() string {
	return string(o)
}

// OptionIDsFromStrings converts raw strings into OptionIDs
func OptionIDsFromStrings(values []string) []OptionID {
	ids := make([]OptionID, len(values))
	for i, v := range values {
		ids[i] = OptionID(v)
	}
	return ids
}

// OptionIDsToStrings converts OptionIDs into raw strings
func OptionIDsToStrings(ids []OptionID) []string {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = string(id)
	}
	return values
}
