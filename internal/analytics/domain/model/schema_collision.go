package model

import (
	"fmt"
	"strings"
)

// FieldCollision records one desired field whose type conflicts with an
// already-stored field of the same name.
type FieldCollision struct {
	Collection string      `json:"collection"`
	Desired    SchemaField `json:"desired"`
	Existing   SchemaField `json:"existing"`
}

func (c FieldCollision) String() string {
	return fmt.Sprintf("collection %s: recipe [%s], stored [%s]", c.Collection, c.Desired, c.Existing)
}

// SchemaCollisionError aggregates every field type collision found while
// reconciling a recipe's collections. Collisions are never auto-resolved,
// with or without the override flag.
type SchemaCollisionError struct {
	Collisions []FieldCollision
}

func (e *SchemaCollisionError) Error() string {
	pairs := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		pairs[i] = c.String()
	}
	return "collision in collection fields: " + strings.Join(pairs, ", ")
}
