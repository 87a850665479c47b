package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// Option is a selectable, point-weighted answer to a criterion
type Option struct {
	ID     types.OptionID
	Label  string
	Points int
}

// Criterion is a question category in the assessment
type Criterion struct {
	ID          types.CriterionID
	Category    string
	Description string // Optional
	Options     []Option
}

func (c Criterion) clone() Criterion {
	cloned := c
	cloned.Options = make([]Option, len(c.Options))
	copy(cloned.Options, c.Options)
	return cloned
}

// HasOption reports whether the option belongs to this criterion
func (c Criterion) HasOption(id types.OptionID) bool {
	for _, opt := range c.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Catalog is the read-only, ordered view of criteria and their options for one session.
type Catalog struct {
	criteria []Criterion
	index    map[types.CriterionID]int
	owner    map[types.OptionID]types.CriterionID
	options  map[types.OptionID]Option
}

// NewCatalog validates the criteria and builds the lookup indexes.
// The input is copied, so later changes to it do not leak into the catalog.
func NewCatalog(criteria []Criterion) (*Catalog, error) {
	if len(criteria) == 0 {
		return nil, goerr.Wrap(ErrConfiguration, "no criteria configured")
	}

	c := &Catalog{
		criteria: make([]Criterion, 0, len(criteria)),
		index:    make(map[types.CriterionID]int, len(criteria)),
		owner:    make(map[types.OptionID]types.CriterionID),
		options:  make(map[types.OptionID]Option),
	}

	for _, criterion := range criteria {
		if err := criterion.ID.Validate(); err != nil {
			return nil, goerr.Wrap(ErrConfiguration, "invalid criterion ID",
				goerr.V(CriterionIDKey, criterion.ID),
				goerr.V(ReasonKey, err.Error()))
		}
		if _, exists := c.index[criterion.ID]; exists {
			return nil, goerr.Wrap(ErrConfiguration, "duplicate criterion ID",
				goerr.V(CriterionIDKey, criterion.ID))
		}
		if len(criterion.Options) == 0 {
			return nil, goerr.Wrap(ErrConfiguration, "criterion has no options",
				goerr.V(CriterionIDKey, criterion.ID))
		}

		for _, opt := range criterion.Options {
			if err := opt.ID.Validate(); err != nil {
				return nil, goerr.Wrap(ErrConfiguration, "invalid option ID",
					goerr.V(CriterionIDKey, criterion.ID),
					goerr.V(OptionIDKey, opt.ID),
					goerr.V(ReasonKey, err.Error()))
			}
			if opt.Points < 0 {
				return nil, goerr.Wrap(ErrConfiguration, "option points must not be negative",
					goerr.V(CriterionIDKey, criterion.ID),
					goerr.V(OptionIDKey, opt.ID),
					goerr.V("points", opt.Points))
			}
			if owner, exists := c.owner[opt.ID]; exists {
				return nil, goerr.Wrap(ErrConfiguration, "duplicate option ID",
					goerr.V(CriterionIDKey, criterion.ID),
					goerr.V(OptionIDKey, opt.ID),
					goerr.V("owner", owner))
			}
			c.owner[opt.ID] = criterion.ID
			c.options[opt.ID] = opt
		}

		c.index[criterion.ID] = len(c.criteria)
		c.criteria = append(c.criteria, criterion.clone())
	}

	return c, nil
}

// Len returns the number of criteria
func (c *Catalog) Len() int {
	return len(c.criteria)
}

// At returns the i-th criterion in catalog order
func (c *Catalog) At(i int) Criterion {
	return c.criteria[i].clone()
}

// Criteria returns a copy of all criteria in catalog order
func (c *Catalog) Criteria() []Criterion {
	criteria := make([]Criterion, len(c.criteria))
	for i, criterion := range c.criteria {
		criteria[i] = criterion.clone()
	}
	return criteria
}

// Criterion looks up a criterion by ID
func (c *Catalog) Criterion(id types.CriterionID) (Criterion, bool) {
	i, ok := c.index[id]
	if !ok {
		return Criterion{}, false
	}
	return c.criteria[i].clone(), true
}

// IndexOf returns the position of the criterion in catalog order, or -1
func (c *Catalog) IndexOf(id types.CriterionID) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Option looks up an option by its globally unique ID
func (c *Catalog) Option(id types.OptionID) (Option, bool) {
	opt, ok := c.options[id]
	return opt, ok
}

// OwnerOf returns the criterion that owns the option
func (c *Catalog) OwnerOf(id types.OptionID) (types.CriterionID, bool) {
	owner, ok := c.owner[id]
	return owner, ok
}

// Points returns the points of the option. ok is false for options not in the catalog.
func (c *Catalog) Points(id types.OptionID) (points int, ok bool) {
	opt, ok := c.options[id]
	if !ok {
		return 0, false
	}
	return opt.Points, true
}
