package config

// Snapshot is the immutable configuration an assessment session scores against.
// Configuration changes made after the snapshot was taken do not affect it.
type Snapshot struct {
	Catalog    *Catalog
	Modes      *SelectionModeRegistry
	Thresholds ThresholdTable
}

// NewSnapshot validates every part of the configuration and bundles it
func NewSnapshot(criteria []Criterion, modes map[string]string, thresholds ThresholdTable) (*Snapshot, error) {
	catalog, err := NewCatalog(criteria)
	if err != nil {
		return nil, err
	}

	registry, err := NewSelectionModeRegistry(modes)
	if err != nil {
		return nil, err
	}

	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Catalog:    catalog,
		Modes:      registry,
		Thresholds: thresholds,
	}, nil
}
