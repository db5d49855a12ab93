// Package mongodb implements the analytics stores on top of MongoDB, one
// database per project via the shared ProjectManager.
package mongodb

import (
	"context"
	"fmt"

	"analytics-platform/internal/shared/database"
	"analytics-platform/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside each project database.
const (
	collectionsCollection       = "collections"
	continuousQueriesCollection = "continuous_queries"
	materializedViewsCollection = "materialized_views"
	reportsCollection           = "reports"
	customReportsCollection     = "custom_reports"
	customPagesCollection       = "custom_pages"
	dashboardsCollection        = "dashboards"
)

// projectStore is the piece every repository shares: resolving a project's
// database and picking a collection inside it.
type projectStore struct {
	projects *database.ProjectManager
	logger   logger.Logger
}

func (s *projectStore) collection(ctx context.Context, project, name string) (*mongo.Collection, error) {
	db, err := s.projects.GetDatabaseForProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database of project %q: %w", project, err)
	}
	return db.Collection(name), nil
}

// ensureUniqueIndex creates a unique index over the given keys. Creating an
// index that already exists is a no-op on the server.
func ensureUniqueIndex(ctx context.Context, coll *mongo.Collection, keys bson.D) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique index on %s: %w", coll.Name(), err)
	}
	return nil
}
