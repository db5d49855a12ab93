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

// CustomReportRepository stores custom reports, unique by the pair of report
// type and name within a project.
type CustomReportRepository struct {
	projectStore
}

// NewCustomReportRepository creates the MongoDB-backed custom report store.
func NewCustomReportRepository(projects *database.ProjectManager, log logger.Logger) *CustomReportRepository {
	return &CustomReportRepository{projectStore{projects: projects, logger: log.WithComponent("custom-report-repository")}}
}

// EnsureIndexes creates the per-project unique index on (report_type, name).
func (r *CustomReportRepository) EnsureIndexes(ctx context.Context, project string) error {
	coll, err := r.collection(ctx, project, customReportsCollection)
	if err != nil {
		return err
	}
	return ensureUniqueIndex(ctx, coll, bson.D{{Key: "report_type", Value: 1}, {Key: "name", Value: 1}})
}

// List returns every custom report of the project.
func (r *CustomReportRepository) List(ctx context.Context, project string) ([]model.CustomReport, error) {
	coll, err := r.collection(ctx, project, customReportsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list custom reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []model.CustomReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode custom reports: %w", err)
	}
	return reports, nil
}

// Create inserts a custom report.
func (r *CustomReportRepository) Create(ctx context.Context, project string, report model.CustomReport) (repository.CreateOutcome, error) {
	coll, err := r.collection(ctx, project, customReportsCollection)
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
		return repository.OutcomeCreated, fmt.Errorf("failed to insert custom report %q: %w", report.Key(), err)
	}
	return repository.OutcomeCreated, nil
}

// Delete removes a custom report by its (reportType, name) key.
func (r *CustomReportRepository) Delete(ctx context.Context, project, reportType, name string) error {
	coll, err := r.collection(ctx, project, customReportsCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"report_type": reportType, "name": name})
	if err != nil {
		return fmt.Errorf("failed to delete custom report %s/%s: %w", reportType, name, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("custom report %s/%s not found", reportType, name)
	}
	return nil
}
