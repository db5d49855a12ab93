package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidProjectName(t *testing.T) {
	valid := []string{"demo", "demo-project", "p1", "crm_events", "a"}
	for _, name := range valid {
		assert.True(t, ValidProjectName(name), name)
	}

	invalid := []string{"", "Demo", "1project", "-demo", "pro ject", "pröject"}
	for _, name := range invalid {
		assert.False(t, ValidProjectName(name), name)
	}
}

func TestDatabaseName(t *testing.T) {
	pm := NewProjectManager(nil, nil, nil)
	assert.Equal(t, "analytics_project_demo", pm.databaseName("demo"))
}
