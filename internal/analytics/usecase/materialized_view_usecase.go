package usecase

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/logger"
)

// MaterializedViewUsecase is the pass-through CRUD surface in front of the
// materialized view store.
type MaterializedViewUsecase struct {
	store  repository.MaterializedViewStore
	logger logger.Logger
}

// NewMaterializedViewUsecase creates the materialized view usecase.
func NewMaterializedViewUsecase(store repository.MaterializedViewStore, log logger.Logger) *MaterializedViewUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &MaterializedViewUsecase{store: store, logger: log.WithComponent("materialized-view-usecase")}
}

// List returns every materialized view of the project.
func (uc *MaterializedViewUsecase) List(ctx context.Context, project string) ([]model.MaterializedView, error) {
	if project == "" {
		return nil, errors.NewValidationError("project is required")
	}
	return uc.store.List(ctx, project)
}

// Create registers a materialized view. The store create is asynchronous;
// the call joins it so the caller observes the result directly.
func (uc *MaterializedViewUsecase) Create(ctx context.Context, project string, view model.MaterializedView) error {
	if project == "" {
		return errors.NewValidationError("project is required")
	}
	if view.TableName == "" || view.Query == "" {
		return errors.NewValidationError("materialized view requires tableName and query")
	}

	outcome, err := uc.store.Create(ctx, project, view).Wait(ctx)
	if err != nil {
		uc.logger.Error("Failed to create materialized view", "error", err,
			"project", project, "tableName", view.TableName)
		return errors.WrapError(err, fmt.Sprintf("failed to create materialized view %q", view.TableName))
	}
	if outcome == repository.OutcomeAlreadyExists {
		return errors.NewConflictError(fmt.Sprintf("materialized view %q already exists", view.TableName))
	}

	uc.logger.Info("Materialized view created", "project", project, "tableName", view.TableName)
	return nil
}

// Delete removes a materialized view by table name.
func (uc *MaterializedViewUsecase) Delete(ctx context.Context, project, tableName string) error {
	if project == "" || tableName == "" {
		return errors.NewValidationError("project and tableName are required")
	}
	if err := uc.store.Delete(ctx, project, tableName); err != nil {
		uc.logger.Error("Failed to delete materialized view", "error", err,
			"project", project, "tableName", tableName)
		return err
	}
	uc.logger.Info("Materialized view deleted", "project", project, "tableName", tableName)
	return nil
}
