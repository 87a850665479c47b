package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig lists the composite indexes the assessment queries need. List orders by
// updated_at alone, which Firestore serves from its automatic single-field index.
func IndexConfig(collectionPrefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: AssessmentCollection(collectionPrefix),
				Indexes: []fireconf.Index{
					// ListByBranch: branch_id ==, updated_at DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "branch_id", Order: fireconf.OrderAscending},
							{Path: "updated_at", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
