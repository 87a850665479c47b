package model

import (
	"slices"
	"sort"

	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// Answer is the recorded answer of one criterion: either SingleAnswer or MultipleAnswer.
type Answer interface {
	Mode() types.SelectionMode
	OptionIDs() []types.OptionID
	Contains(id types.OptionID) bool
}

// SingleAnswer holds the one option chosen for a single-mode criterion
type SingleAnswer struct {
	OptionID types.OptionID
}

var _ Answer = SingleAnswer{}

func (a SingleAnswer) Mode() types.SelectionMode { return types.SelectionModeSingle }

func (a SingleAnswer) OptionIDs() []types.OptionID { return []types.OptionID{a.OptionID} }

func (a SingleAnswer) Contains(id types.OptionID) bool { return a.OptionID == id }

// MultipleAnswer is an ordered set of options for a multiple-mode criterion. Selection order is
// kept for echoing back to the operator; it has no effect on scoring.
type MultipleAnswer struct {
	optionIDs []types.OptionID
}

var _ Answer = MultipleAnswer{}

// NewMultipleAnswer builds an ordered set, dropping duplicates
func NewMultipleAnswer(ids ...types.OptionID) MultipleAnswer {
	set := make([]types.OptionID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	return MultipleAnswer{optionIDs: set}
}

func (a MultipleAnswer) Mode() types.SelectionMode { return types.SelectionModeMultiple }

func (a MultipleAnswer) OptionIDs() []types.OptionID { return slices.Clone(a.optionIDs) }

func (a MultipleAnswer) Contains(id types.OptionID) bool { return slices.Contains(a.optionIDs, id) }

// Len returns the number of selected options
func (a MultipleAnswer) Len() int { return len(a.optionIDs) }

func (a MultipleAnswer) toggle(id types.OptionID) MultipleAnswer {
	if idx := slices.Index(a.optionIDs, id); idx >= 0 {
		return MultipleAnswer{optionIDs: slices.Delete(slices.Clone(a.optionIDs), idx, idx+1)}
	}
	return MultipleAnswer{optionIDs: append(slices.Clone(a.optionIDs), id)}
}

// ResponseSet holds the answers of one assessment instance, keyed by criterion.
// A criterion is answered iff it has an entry; entries are never empty.
type ResponseSet struct {
	answers map[types.CriterionID]Answer
}

// NewResponseSet returns an empty ResponseSet
func NewResponseSet() *ResponseSet {
	return &ResponseSet{answers: make(map[types.CriterionID]Answer)}
}

// Select records the single answer of a criterion, replacing any previous answer
func (r *ResponseSet) Select(criterion types.CriterionID, option types.OptionID) {
	r.answers[criterion] = SingleAnswer{OptionID: option}
}

// Toggle flips the membership of option in a multiple answer and reports whether it is selected
// afterwards. Deselecting the last option removes the criterion's entry.
func (r *ResponseSet) Toggle(criterion types.CriterionID, option types.OptionID) bool {
	current, _ := r.answers[criterion].(MultipleAnswer)
	next := current.toggle(option)
	if next.Len() == 0 {
		delete(r.answers, criterion)
		return false
	}
	r.answers[criterion] = next
	return next.Contains(option)
}

// Apply records option for criterion according to mode: replace for single, toggle for multiple.
func (r *ResponseSet) Apply(criterion types.CriterionID, mode types.SelectionMode, option types.OptionID) {
	if mode == types.SelectionModeMultiple {
		r.Toggle(criterion, option)
		return
	}
	r.Select(criterion, option)
}

// Remove drops the answer of the criterion
func (r *ResponseSet) Remove(criterion types.CriterionID) {
	delete(r.answers, criterion)
}

// Answer returns the answer of the criterion
func (r *ResponseSet) Answer(criterion types.CriterionID) (Answer, bool) {
	a, ok := r.answers[criterion]
	return a, ok
}

// IsAnswered reports whether the criterion has a non-empty answer
func (r *ResponseSet) IsAnswered(criterion types.CriterionID) bool {
	_, ok := r.answers[criterion]
	return ok
}

// Len returns the number of answered criteria, including ones unknown to any catalog
func (r *ResponseSet) Len() int {
	return len(r.answers)
}

// AnsweredCount returns how many of the catalog's criteria are answered
func (r *ResponseSet) AnsweredCount(catalog *config.Catalog) int {
	count := 0
	for _, c := range catalog.Criteria() {
		if r.IsAnswered(c.ID) {
			count++
		}
	}
	return count
}

// Unanswered lists the catalog's criteria without an answer, in catalog order
func (r *ResponseSet) Unanswered(catalog *config.Catalog) []types.CriterionID {
	var missing []types.CriterionID
	for _, c := range catalog.Criteria() {
		if !r.IsAnswered(c.ID) {
			missing = append(missing, c.ID)
		}
	}
	return missing
}

// CriterionIDs returns the answered criteria sorted by ID
func (r *ResponseSet) CriterionIDs() []types.CriterionID {
	ids := make([]types.CriterionID, 0, len(r.answers))
	for id := range r.answers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SelectedOptionIDs flattens the answers: catalog criteria first in catalog order, then any
// criteria the catalog does not know sorted by ID. Within a criterion selection order is kept.
func (r *ResponseSet) SelectedOptionIDs(catalog *config.Catalog) []types.OptionID {
	var ids []types.OptionID
	seen := make(map[types.CriterionID]bool, len(r.answers))

	if catalog != nil {
		for _, c := range catalog.Criteria() {
			if a, ok := r.answers[c.ID]; ok {
				ids = append(ids, a.OptionIDs()...)
				seen[c.ID] = true
			}
		}
	}

	for _, id := range r.CriterionIDs() {
		if !seen[id] {
			ids = append(ids, r.answers[id].OptionIDs()...)
		}
	}
	return ids
}

// Clone returns a deep copy
func (r *ResponseSet) Clone() *ResponseSet {
	cloned := NewResponseSet()
	for id, a := range r.answers {
		cloned.answers[id] = a
	}
	return cloned
}

// SeedReport lists what SeedResponseSet could not place as-is
type SeedReport struct {
	// Stale are option IDs with no owning criterion in the catalog. They are left out.
	Stale []types.OptionID
	// Overwritten are options replaced because a single-mode criterion received several IDs.
	Overwritten []types.OptionID
}

// HasIssues reports whether anything was dropped while seeding
func (s SeedReport) HasIssues() bool {
	return len(s.Stale) > 0 || len(s.Overwritten) > 0
}

// SeedResponseSet rebuilds a ResponseSet from a persisted flat list of option IDs by mapping each
// ID back to its owning criterion. For single-mode criteria the last ID wins.
func SeedResponseSet(catalog *config.Catalog, modes *config.SelectionModeRegistry, optionIDs []types.OptionID) (*ResponseSet, SeedReport) {
	rs := NewResponseSet()
	var report SeedReport

	for _, id := range optionIDs {
		owner, ok := catalog.OwnerOf(id)
		if !ok {
			report.Stale = append(report.Stale, id)
			continue
		}

		if modes.ModeOf(owner) == types.SelectionModeMultiple {
			current, _ := rs.answers[owner].(MultipleAnswer)
			if !current.Contains(id) {
				rs.answers[owner] = current.toggle(id)
			}
			continue
		}

		if prev, ok := rs.answers[owner]; ok && !prev.Contains(id) {
			report.Overwritten = append(report.Overwritten, prev.OptionIDs()...)
		}
		rs.Select(owner, id)
	}

	return rs, report
}
