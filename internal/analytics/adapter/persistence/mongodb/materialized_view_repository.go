package mongodb

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/database"
	"analytics-platform/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaterializedViewRepository stores materialized view definitions, unique by
// table name within a project.
type MaterializedViewRepository struct {
	projectStore
}

// NewMaterializedViewRepository creates the MongoDB-backed materialized view store.
func NewMaterializedViewRepository(projects *database.ProjectManager, log logger.Logger) *MaterializedViewRepository {
	return &MaterializedViewRepository{projectStore{projects: projects, logger: log.WithComponent("materialized-view-repository")}}
}

// EnsureIndexes creates the per-project unique index on table name.
func (r *MaterializedViewRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, materializedViewsCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "table_name", Value: 1}})
}

// List returns every materialized view of the project.
func (r *MaterializedViewRepository) List(ctx context.Context, project string) ([]model.MaterializedView, error) {
	coll, err := r.collection(ctx, project, materializedViewsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list materialized views: %w", err)
	}
	defer cursor.Close(ctx)

	var views []model.MaterializedView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode materialized views: %w", err)
	}
	return views, nil
}

// Create registers a materialized view behind an asynchronous handle.
func (r *MaterializedViewRepository) Create(ctx context.Context, project string, view model.MaterializedView) *repository.Creation {
	creation, resolve := repository.NewCreation()
	go func() {
		coll, err := r.collection(ctx, project, materializedViewsCollection)
		if err != nil {
			resolve(repository.OutcomeCreated, err)
			return
		}
		if err := r.EnsureIndexes(ctx, project); err != nil {
			resolve(repository.OutcomeCreated, err)
			return
		}

		if _, err := coll.InsertOne(ctx, view); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				resolve(repository.OutcomeAlreadyExists, nil)
				return
			}
			resolve(repository.OutcomeCreated, fmt.Errorf("failed to insert materialized view %q: %w", view.TableName, err))
			return
		}
		resolve(repository.OutcomeCreated, nil)
	}()
	return creation
}

// Delete removes a materialized view by table name.
func (r *MaterializedViewRepository) Delete(ctx context.Context, project, tableName string) error {
	coll, err := r.collection(ctx, project, materializedViewsCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"table_name": tableName})
	if err != nil {
		return fmt.Errorf("failed to delete materialized view %q: %w", tableName, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("materialized view %q not found", tableName)
	}
	return nil
}
