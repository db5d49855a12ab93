package model

import (
	"fmt"
	"strings"
)

// FieldType is the primitive type tag of a collection field.
type FieldType string

const (
	FieldTypeString    FieldType = "STRING"
	FieldTypeInteger   FieldType = "INTEGER"
	FieldTypeLong      FieldType = "LONG"
	FieldTypeDouble    FieldType = "DOUBLE"
	FieldTypeDecimal   FieldType = "DECIMAL"
	FieldTypeBoolean   FieldType = "BOOLEAN"
	FieldTypeDate      FieldType = "DATE"
	FieldTypeTime      FieldType = "TIME"
	FieldTypeTimestamp FieldType = "TIMESTAMP"
	FieldTypeBinary    FieldType = "BINARY"
)

// scalarFieldTypes is the closed set of non-composite type tags.
var scalarFieldTypes = map[FieldType]struct{}{
	FieldTypeString:    {},
	FieldTypeInteger:   {},
	FieldTypeLong:      {},
	FieldTypeDouble:    {},
	FieldTypeDecimal:   {},
	FieldTypeBoolean:   {},
	FieldTypeDate:      {},
	FieldTypeTime:      {},
	FieldTypeTimestamp: {},
	FieldTypeBinary:    {},
}

// IsArray reports whether the type tag is an array of a scalar type,
// e.g. ARRAY_STRING.
func (t FieldType) IsArray() bool {
	return strings.HasPrefix(string(t), "ARRAY_")
}

// IsMap reports whether the type tag is a string-keyed map of a scalar
// type, e.g. MAP_DOUBLE.
func (t FieldType) IsMap() bool {
	return strings.HasPrefix(string(t), "MAP_")
}

// Element returns the scalar element type for array and map tags. For
// scalar tags it returns the tag itself.
func (t FieldType) Element() FieldType {
	switch {
	case t.IsArray():
		return FieldType(strings.TrimPrefix(string(t), "ARRAY_"))
	case t.IsMap():
		return FieldType(strings.TrimPrefix(string(t), "MAP_"))
	default:
		return t
	}
}

// Valid reports whether the type tag names a known scalar, array or map type.
func (t FieldType) Valid() bool {
	_, ok := scalarFieldTypes[t.Element()]
	if !ok {
		return false
	}
	if t.IsArray() || t.IsMap() {
		return t.Element() != t
	}
	return true
}

// FieldCategory classifies how a field is used by the query layer.
type FieldCategory string

const (
	CategoryDimension  FieldCategory = "DIMENSION"
	CategoryMeasure    FieldCategory = "MEASURE"
	CategoryAttribute  FieldCategory = "ATTRIBUTE"
	CategoryTimeseries FieldCategory = "TIMESERIES"
)

// SchemaField describes one field of an event collection. Identity is the
// field name within its collection; the type of a stored field is immutable.
type SchemaField struct {
	Name     string        `json:"name" bson:"name"`
	Category FieldCategory `json:"category,omitempty" bson:"category,omitempty"`
	Type     FieldType     `json:"type" bson:"type"`
}

// String renders the field as name:type for error messages.
func (f SchemaField) String() string {
	return fmt.Sprintf("%s:%s", f.Name, f.Type)
}
