package usecase

import (
	"context"
	"fmt"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/logger"
)

// ContinuousQueryUsecase is the pass-through CRUD surface in front of the
// continuous query store.
type ContinuousQueryUsecase struct {
	store  repository.ContinuousQueryStore
	logger logger.Logger
}

// NewContinuousQueryUsecase creates the continuous query usecase.
func NewContinuousQueryUsecase(store repository.ContinuousQueryStore, log logger.Logger) *ContinuousQueryUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &ContinuousQueryUsecase{store: store, logger: log.WithComponent("continuous-query-usecase")}
}

// List returns every continuous query of the project.
func (uc *ContinuousQueryUsecase) List(ctx context.Context, project string) ([]model.ContinuousQuery, error) {
	if project == "" {
		return nil, errors.NewValidationError("project is required")
	}
	return uc.store.List(ctx, project)
}

// Create registers a continuous query, joining the asynchronous store create.
func (uc *ContinuousQueryUsecase) Create(ctx context.Context, project string, query model.ContinuousQuery) error {
	if project == "" {
		return errors.NewValidationError("project is required")
	}
	if query.TableName == "" || query.Query == "" {
		return errors.NewValidationError("continuous query requires tableName and query")
	}

	outcome, err := uc.store.Create(ctx, project, query).Wait(ctx)
	if err != nil {
		uc.logger.Error("Failed to create continuous query", "error", err,
			"project", project, "tableName", query.TableName)
		return errors.WrapError(err, fmt.Sprintf("failed to create continuous query %q", query.TableName))
	}
	if outcome == repository.OutcomeAlreadyExists {
		return errors.NewConflictError(fmt.Sprintf("continuous query %q already exists", query.TableName))
	}

	uc.logger.Info("Continuous query created", "project", project, "tableName", query.TableName)
	return nil
}

// Delete removes a continuous query by table name.
func (uc *ContinuousQueryUsecase) Delete(ctx context.Context, project, tableName string) error {
	if project == "" || tableName == "" {
		return errors.NewValidationError("project and tableName are required")
	}
	if err := uc.store.Delete(ctx, project, tableName); err != nil {
		uc.logger.Error("Failed to delete continuous query", "error", err,
			"project", project, "tableName", tableName)
		return err
	}
	uc.logger.Info("Continuous query deleted", "project", project, "tableName", tableName)
	return nil
}
