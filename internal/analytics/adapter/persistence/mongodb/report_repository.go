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

// ReportRepository stores saved reports, unique by slug within a project.
type ReportRepository struct {
	projectStore
}

// NewReportRepository creates the MongoDB-backed report store.
func NewReportRepository(projects *database.ProjectManager, log logger.Logger) *ReportRepository {
	return &ReportRepository{projectStore{projects: projects, logger: log.WithComponent("report-repository")}}
}

// EnsureIndexes creates the per-project unique index on slug.
func (r *ReportRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, reportsCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "slug", Value: 1}})
}

// List returns every report of the project.
func (r *ReportRepository) List(ctx context.Context, project string) ([]model.Report, error) {
	coll, err := r.collection(ctx, project, reportsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

// Create inserts a report; a second report with the same slug surfaces as
// an already-exists outcome.
func (r *ReportRepository) Create(ctx context.Context, project string, report model.Report) (repository.CreateOutcome, error) {
	coll, err := r.collection(ctx, project, reportsCollection)
	if err != nil {
		return repository.OutcomeCreated, err
	}
	if err := r.EnsureIndexes(ctx, project); err != nil {
		return repository.OutcomeCreated, err
	}

	if _, err := coll.InsertOne(ctx, report); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.OutcomeAlreadyExists, nil
		}
		return repository.OutcomeCreated, fmt.Errorf("failed to insert report %q: %w", report.Slug, err)
	}
	return repository.OutcomeCreated, nil
}

// Update replaces the report document matching the slug, keeping its
// identity document in place.
func (r *ReportRepository) Update(ctx context.Context, project string, report model.Report) error {
	coll, err := r.collection(ctx, project, reportsCollection)
	if err != nil {
		return err
	}

	result, err := coll.ReplaceOne(ctx, bson.M{"slug": report.Slug}, report)
	if err != nil {
		return fmt.Errorf("failed to update report %q: %w", report.Slug, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("report %q not found", report.Slug)
	}
	return nil
}

// Delete removes a report by slug.
func (r *ReportRepository) Delete(ctx context.Context, project, slug string) error {
	coll, err := r.collection(ctx, project, reportsCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("failed to delete report %q: %w", slug, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("report %q not found", slug)
	}
	return nil
}
