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

// ContinuousQueryRepository stores continuous query definitions, unique by
// table name within a project. Creates complete on a background goroutine
// behind the Creation handle.
type ContinuousQueryRepository struct {
	projectStore
}

// NewContinuousQueryRepository creates the MongoDB-backed continuous query store.
func NewContinuousQueryRepository(projects *database.ProjectManager, log logger.Logger) *ContinuousQueryRepository {
	return &ContinuousQueryRepository{projectStore{projects: projects, logger: log.WithComponent("continuous-query-repository")}}
}

// EnsureIndexes creates the per-project unique index on table name.
func (r *ContinuousQueryRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, continuousQueriesCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "table_name", Value: 1}})
}

// List returns every continuous query of the project.
func (r *ContinuousQueryRepository) List(ctx context.Context, project string) ([]model.ContinuousQuery, error) {
	coll, err := r.collection(ctx, project, continuousQueriesCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list continuous queries: %w", err)
	}
	defer cursor.Close(ctx)

	var queries []model.ContinuousQuery
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, fmt.Errorf("failed to decode continuous queries: %w", err)
	}
	return queries, nil
}

// Create registers a continuous query. The insert runs on a goroutine; the
// returned handle resolves when it settles.
func (r *ContinuousQueryRepository) Create(ctx context.Context, project string, query model.ContinuousQuery) *repository.Creation {
	creation, resolve := repository.NewCreation()
	go func() {
		coll, err := r.collection(ctx, project, continuousQueriesCollection)
		if err != nil {
			resolve(repository.OutcomeCreated, err)
			return
		}
		if err := r.EnsureIndexes(ctx, project); err != nil {
			resolve(repository.OutcomeCreated, err)
			return
		}

		if _, err := coll.InsertOne(ctx, query); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				resolve(repository.OutcomeAlreadyExists, nil)
				return
			}
			resolve(repository.OutcomeCreated, fmt.Errorf("failed to insert continuous query %q: %w", query.TableName, err))
			return
		}
		resolve(repository.OutcomeCreated, nil)
	}()
	return creation
}

// Delete removes a continuous query by table name.
func (r *ContinuousQueryRepository) Delete(ctx context.Context, project, tableName string) error {
	coll, err := r.collection(ctx, project, continuousQueriesCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"table_name": tableName})
	if err != nil {
		return fmt.Errorf("failed to delete continuous query %q: %w", tableName, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("continuous query %q not found", tableName)
	}
	return nil
}
