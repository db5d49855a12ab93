package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_JSONDefaults(t *testing.T) {
	// Absent list fields default to empty, not error.
	var recipe Recipe
	err := json.Unmarshal([]byte(`{"strategy":"SPECIFIC","project":"demo"}`), &recipe)
	require.NoError(t, err)

	assert.Equal(t, StrategySpecific, recipe.Strategy)
	assert.Equal(t, "demo", recipe.Project)
	assert.Empty(t, recipe.Collections)
	assert.Empty(t, recipe.ContinuousQueries)
	assert.Empty(t, recipe.Dashboards)
}

func TestRecipe_JSONRoundTrip(t *testing.T) {
	in := Recipe{
		Strategy: StrategySpecific,
		Project:  "demo",
		Collections: map[string][]SchemaField{
			"pageviews": {
				{Name: "user_id", Category: CategoryDimension, Type: FieldTypeLong},
				{Name: "time", Category: CategoryTimeseries, Type: FieldTypeTimestamp},
			},
		},
		ContinuousQueries: []ContinuousQuery{
			{Name: "Daily visits", TableName: "daily_visits", Query: "SELECT count(1) FROM pageviews"},
		},
		Dashboards: []Dashboard{
			{Name: "Main", Items: []DashboardItem{{Name: "Visits", Directive: "line-chart"}}},
		},
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Recipe
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestRecipe_Validate(t *testing.T) {
	recipe := Recipe{
		Strategy: StrategySpecific,
		Collections: map[string][]SchemaField{
			"events": {{Name: "x", Type: FieldTypeInteger}},
		},
	}
	assert.NoError(t, recipe.Validate())
}

func TestRecipe_Validate_UnknownStrategy(t *testing.T) {
	recipe := Recipe{Strategy: "SOMETIMES"}
	assert.Error(t, recipe.Validate())
}

func TestRecipe_Validate_DuplicateField(t *testing.T) {
	recipe := Recipe{
		Strategy: StrategyDefault,
		Collections: map[string][]SchemaField{
			"events": {
				{Name: "x", Type: FieldTypeInteger},
				{Name: "x", Type: FieldTypeString},
			},
		},
	}
	assert.Error(t, recipe.Validate())
}

func TestRecipe_Validate_BadFieldType(t *testing.T) {
	recipe := Recipe{
		Strategy: StrategySpecific,
		Collections: map[string][]SchemaField{
			"events": {{Name: "x", Type: "VARCHAR"}},
		},
	}
	assert.Error(t, recipe.Validate())
}

func TestRecipe_Validate_DuplicateListKeysAllowed(t *testing.T) {
	// Duplicate slugs in a resource list are legal at the document level;
	// the installer resolves them in list order.
	recipe := Recipe{
		Strategy: StrategySpecific,
		Reports: []Report{
			{Slug: "funnel", Name: "Funnel", Query: "SELECT 1"},
			{Slug: "funnel", Name: "Funnel v2", Query: "SELECT 2"},
		},
	}
	assert.NoError(t, recipe.Validate())
}

func TestSchemaCollisionError_Message(t *testing.T) {
	err := &SchemaCollisionError{Collisions: []FieldCollision{
		{
			Collection: "events",
			Desired:    SchemaField{Name: "x", Type: FieldTypeString},
			Existing:   SchemaField{Name: "x", Type: FieldTypeInteger},
		},
	}}
	assert.Contains(t, err.Error(), "collision in collection fields")
	assert.Contains(t, err.Error(), "recipe [x:STRING]")
	assert.Contains(t, err.Error(), "stored [x:INTEGER]")
}
