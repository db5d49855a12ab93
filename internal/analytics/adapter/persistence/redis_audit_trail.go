// Package persistence holds store adapters that are not MongoDB-backed.
package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"analytics-platform/internal/analytics/usecase"
	"analytics-platform/internal/shared/eventbus"
	"analytics-platform/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AuditEntry is one recorded install lifecycle event, read back from the
// stream.
type AuditEntry struct {
	ID        string    `json:"id"`
	EventType string    `json:"eventType"`
	Project   string    `json:"project"`
	Step      string    `json:"step,omitempty"`
	Override  bool      `json:"override"`
	Error     string    `json:"error,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisAuditTrail persists the recipe install lifecycle into Redis Streams,
// one stream per project. The trail is observational: recording failures are
// logged and swallowed, never surfaced to the install call.
type RedisAuditTrail struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisAuditTrail creates a Redis-backed install audit trail.
func NewRedisAuditTrail(client *redis.Client, log logger.Logger) *RedisAuditTrail {
	return &RedisAuditTrail{client: client, logger: log.WithComponent("redis-audit-trail")}
}

// SubscribeTo registers the trail on every install lifecycle event type.
func (r *RedisAuditTrail) SubscribeTo(bus eventbus.EventBusInterface) {
	for _, eventType := range []string{
		usecase.EventInstallStarted,
		usecase.EventInstallStep,
		usecase.EventInstallFinished,
		usecase.EventInstallFailed,
	} {
		bus.Subscribe(eventType, r.Record)
	}
}

// Record appends one lifecycle event to the project's install stream.
func (r *RedisAuditTrail) Record(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Data().(usecase.InstallEvent)
	if !ok {
		r.logger.Warn("Ignoring event with unexpected payload",
			zap.String("eventType", event.Type()))
		return nil
	}

	_, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName(payload.Project),
		Values: map[string]interface{}{
			"eventType": event.Type(),
			"project":   payload.Project,
			"step":      payload.Step,
			"override":  payload.Override,
			"error":     payload.Error,
			"requestId": payload.RequestID,
			"timestamp": payload.Timestamp.UnixNano(),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to record install event",
			zap.String("project", payload.Project),
			zap.String("eventType", event.Type()),
			zap.Error(err))
	}
	return nil
}

// History reads back the most recent install events of a project, newest
// first.
func (r *RedisAuditTrail) History(ctx context.Context, project string, limit int64) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	messages, err := r.client.XRevRangeN(ctx, streamName(project), "+", "-", limit).Result()
	if err != nil {
		if err == redis.Nil {
			return []AuditEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read install history of project %q: %w", project, err)
	}

	entries := make([]AuditEntry, 0, len(messages))
	for _, msg := range messages {
		entry, err := parseAuditEntry(msg)
		if err != nil {
			r.logger.Warn("Skipping malformed audit entry",
				zap.String("messageId", msg.ID),
				zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func streamName(project string) string {
	return "recipe:installs:" + project
}

// parseAuditEntry decodes one stream message. Redis hands every value back
// as a string.
func parseAuditEntry(msg redis.XMessage) (AuditEntry, error) {
	entry := AuditEntry{ID: msg.ID}

	eventType, ok := msg.Values["eventType"].(string)
	if !ok {
		return entry, fmt.Errorf("message %s has no eventType", msg.ID)
	}
	entry.EventType = eventType
	entry.Project, _ = msg.Values["project"].(string)
	entry.Step, _ = msg.Values["step"].(string)
	entry.Error, _ = msg.Values["error"].(string)
	entry.RequestID, _ = msg.Values["requestId"].(string)

	if override, ok := msg.Values["override"].(string); ok {
		entry.Override, _ = strconv.ParseBool(override)
	}
	if ts, ok := msg.Values["timestamp"].(string); ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			entry.Timestamp = time.Unix(0, nanos)
		}
	}
	return entry, nil
}
