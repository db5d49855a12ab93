package model

import (
	"fmt"
)

// Strategy selects which project a recipe applies to.
type Strategy string

const (
	// StrategySpecific targets the project named in the recipe document.
	StrategySpecific Strategy = "SPECIFIC"
	// StrategyDefault targets whatever project the caller supplies.
	StrategyDefault Strategy = "DEFAULT"
)

// Valid reports whether the strategy tag is one of the known variants.
func (s Strategy) Valid() bool {
	return s == StrategySpecific || s == StrategyDefault
}

// Recipe is the declarative bundle describing a project's desired schema and
// derived resources. A recipe is a transient document: produced once by
// export or by an external author, consumed once by install, never persisted
// by the engine itself.
type Recipe struct {
	Strategy          Strategy                 `json:"strategy"`
	Project           string                   `json:"project,omitempty"`
	Collections       map[string][]SchemaField `json:"collections,omitempty"`
	ContinuousQueries []ContinuousQuery        `json:"continuousQueries,omitempty"`
	MaterializedViews []MaterializedView       `json:"materializedViews,omitempty"`
	Reports           []Report                 `json:"reports,omitempty"`
	CustomReports     []CustomReport           `json:"customReports,omitempty"`
	CustomPages       []CustomPage             `json:"customPages,omitempty"`
	Dashboards        []Dashboard              `json:"dashboards,omitempty"`
}

// Validate checks structural validity of the recipe document: a known
// strategy tag, well-formed field types, and field names unique within each
// collection. Duplicate identifying keys inside a resource list are not
// rejected here; the installer processes lists in order and surfaces the
// duplicate deterministically as an already-exists outcome on the second
// entry.
func (r *Recipe) Validate() error {
	if !r.Strategy.Valid() {
		return fmt.Errorf("unknown recipe strategy %q", r.Strategy)
	}

	for collection, fields := range r.Collections {
		seen := make(map[string]struct{}, len(fields))
		for _, field := range fields {
			if field.Name == "" {
				return fmt.Errorf("collection %q has a field with no name", collection)
			}
			if !field.Type.Valid() {
				return fmt.Errorf("collection %q field %q has unknown type %q", collection, field.Name, field.Type)
			}
			if _, dup := seen[field.Name]; dup {
				return fmt.Errorf("collection %q declares field %q more than once", collection, field.Name)
			}
			seen[field.Name] = struct{}{}
		}
	}

	return nil
}
