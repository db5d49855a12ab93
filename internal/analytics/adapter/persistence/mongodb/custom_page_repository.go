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

// CustomPageRepository stores custom UI pages, unique by slug within a
// project. Deployments without the page feature simply never construct it.
type CustomPageRepository struct {
	projectStore
}

// NewCustomPageRepository creates the MongoDB-backed custom page store.
func NewCustomPageRepository(projects *database.ProjectManager, log logger.Logger) *CustomPageRepository {
	return &CustomPageRepository{projectStore{projects: projects, logger: log.WithComponent("custom-page-repository")}}
}

// EnsureIndexes creates the per-project unique index on slug.
func (r *CustomPageRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, customPagesCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "slug", Value: 1}})
}

// List returns every custom page of the project.
func (r *CustomPageRepository) List(ctx context.Context, project string) ([]model.CustomPage, error) {
	coll, err := r.collection(ctx, project, customPagesCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list custom pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []model.CustomPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode custom pages: %w", err)
	}
	return pages, nil
}

// Get returns a custom page by slug.
func (r *CustomPageRepository) Get(ctx context.Context, project, slug string) (*model.CustomPage, error) {
	coll, err := r.collection(ctx, project, customPagesCollection)
	if err != nil {
		return nil, err
	}

	var page model.CustomPage
	if err := coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&page); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("custom page %q not found", slug)
		}
		return nil, fmt.Errorf("failed to read custom page %q: %w", slug, err)
	}
	return &page, nil
}

// Save inserts a custom page.
func (r *CustomPageRepository) Save(ctx context.Context, project string, page model.CustomPage) (repository.CreateOutcome, error) {
	coll, err := r.collection(ctx, project, customPagesCollection)
	if err != nil {
		return repository.OutcomeCreated, err
	}
	if err := r.EnsureIndexes(ctx, project); err != nil {
		return repository.OutcomeCreated, err
	}

	if _, err := coll.InsertOne(ctx, page); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.OutcomeAlreadyExists, nil
		}
		return repository.OutcomeCreated, fmt.Errorf("failed to insert custom page %q: %w", page.Slug, err)
	}
	return repository.OutcomeCreated, nil
}

// Delete removes a custom page by slug.
func (r *CustomPageRepository) Delete(ctx context.Context, project, slug string) error {
	coll, err := r.collection(ctx, project, customPagesCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("failed to delete custom page %q: %w", slug, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("custom page %q not found", slug)
	}
	return nil
}
