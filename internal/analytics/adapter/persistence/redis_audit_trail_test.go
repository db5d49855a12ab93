package persistence

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditEntry(t *testing.T) {
	msg := redis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]interface{}{
			"eventType": "recipe.install.step",
			"project":   "demo",
			"step":      "reports",
			"override":  "true",
			"error":     "",
			"requestId": "req-42",
			"timestamp": "1700000000000000000",
		},
	}

	entry, err := parseAuditEntry(msg)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-0", entry.ID)
	assert.Equal(t, "recipe.install.step", entry.EventType)
	assert.Equal(t, "demo", entry.Project)
	assert.Equal(t, "reports", entry.Step)
	assert.True(t, entry.Override)
	assert.Empty(t, entry.Error)
	assert.Equal(t, "req-42", entry.RequestID)
	assert.Equal(t, time.Unix(0, 1700000000000000000), entry.Timestamp)
}

func TestParseAuditEntry_MissingEventType(t *testing.T) {
	_, err := parseAuditEntry(redis.XMessage{ID: "1-0", Values: map[string]interface{}{"project": "demo"}})
	assert.Error(t, err)
}

func TestStreamName(t *testing.T) {
	assert.Equal(t, "recipe:installs:demo", streamName("demo"))
}
