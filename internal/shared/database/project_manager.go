package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"analytics-platform/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

var projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// ProjectManager hands out the MongoDB database backing each analytics
// project. Every project gets its own database so that collections,
// derived views and UI resources never leak across projects.
type ProjectManager struct {
	client      *mongo.Client
	connections map[string]*mongo.Database // project -> database
	mu          sync.RWMutex
	logger      logger.Logger
	config      *ProjectConfig
}

// ProjectConfig holds configuration for project database management
type ProjectConfig struct {
	DatabasePrefix    string        `env:"DB_PREFIX" envDefault:"analytics_project_"`
	ConnectionTimeout time.Duration `env:"CONNECTION_TIMEOUT" envDefault:"30s"`
}

// NewProjectManager creates a new project manager
func NewProjectManager(client *mongo.Client, config *ProjectConfig, log logger.Logger) *ProjectManager {
	if config == nil {
		config = &ProjectConfig{
			DatabasePrefix:    "analytics_project_",
			ConnectionTimeout: 30 * time.Second,
		}
	}

	return &ProjectManager{
		client:      client,
		connections: make(map[string]*mongo.Database),
		logger:      log,
		config:      config,
	}
}

// ValidProjectName reports whether the given project identifier is usable
// as a database name component.
func ValidProjectName(project string) bool {
	return projectNamePattern.MatchString(project)
}

// GetDatabaseForProject returns the MongoDB database for a specific project.
func (pm *ProjectManager) GetDatabaseForProject(ctx context.Context, project string) (*mongo.Database, error) {
	if project == "" {
		return nil, fmt.Errorf("project cannot be empty")
	}
	if !ValidProjectName(project) {
		return nil, fmt.Errorf("invalid project name %q", project)
	}

	pm.mu.RLock()
	if db, exists := pm.connections[project]; exists {
		pm.mu.RUnlock()
		return db, nil
	}
	pm.mu.RUnlock()

	pm.mu.Lock()
	defer pm.mu.Unlock()

	if db, exists := pm.connections[project]; exists {
		return db, nil
	}

	db := pm.client.Database(pm.databaseName(project))
	pm.connections[project] = db

	pm.logger.WithFields(map[string]interface{}{
		"project":       project,
		"database_name": db.Name(),
	}).Info("Opened database for project")

	return db, nil
}

// ListProjects lists every project that has a backing database.
func (pm *ProjectManager) ListProjects(ctx context.Context) ([]string, error) {
	databaseNames, err := pm.client.ListDatabaseNames(ctx, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	var projects []string
	for _, name := range databaseNames {
		if strings.HasPrefix(name, pm.config.DatabasePrefix) {
			projects = append(projects, strings.TrimPrefix(name, pm.config.DatabasePrefix))
		}
	}

	return projects, nil
}

// Ping verifies the underlying client is reachable.
func (pm *ProjectManager) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pm.config.ConnectionTimeout)
	defer cancel()
	return pm.client.Ping(ctx, nil)
}

func (pm *ProjectManager) databaseName(project string) string {
	return pm.config.DatabasePrefix + project
}
