package usecase

import (
	"context"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/logger"
)

// DashboardUsecase is the read surface in front of the dashboard store.
// Dashboard mutation goes through recipe install.
type DashboardUsecase struct {
	store  repository.DashboardStore
	logger logger.Logger
}

// NewDashboardUsecase creates the dashboard usecase.
func NewDashboardUsecase(store repository.DashboardStore, log logger.Logger) *DashboardUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &DashboardUsecase{store: store, logger: log.WithComponent("dashboard-usecase")}
}

// List returns every dashboard of the project without items.
func (uc *DashboardUsecase) List(ctx context.Context, project string) ([]model.Dashboard, error) {
	if project == "" {
		return nil, errors.NewValidationError("project is required")
	}
	return uc.store.List(ctx, project)
}

// Get returns a dashboard with its items by exact name.
func (uc *DashboardUsecase) Get(ctx context.Context, project, name string) (*model.Dashboard, error) {
	if project == "" || name == "" {
		return nil, errors.NewValidationError("project and name are required")
	}
	return uc.store.Get(ctx, project, name)
}
