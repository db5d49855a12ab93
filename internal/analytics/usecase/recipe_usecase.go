package usecase

import (
	"context"
	"time"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/domain/repository"
	"analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/eventbus"
	"analytics-platform/internal/shared/logger"
	"analytics-platform/internal/shared/utils"
)

// Install lifecycle event types published on the shared event bus.
const (
	EventInstallStarted  = "recipe.install.started"
	EventInstallStep     = "recipe.install.step"
	EventInstallFinished = "recipe.install.finished"
	EventInstallFailed   = "recipe.install.failed"
)

// InstallEvent is the payload of the recipe lifecycle events.
type InstallEvent struct {
	Project   string    `json:"project"`
	Step      string    `json:"step,omitempty"`
	Override  bool      `json:"override"`
	Error     string    `json:"error,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RecipeUsecaseInterface is the contract of the recipe engine.
type RecipeUsecaseInterface interface {
	Export(ctx context.Context, project string) (*model.Recipe, error)
	Install(ctx context.Context, req InstallRecipeRequest) error
}

// InstallRecipeRequest carries one install call. Project may be empty when
// the recipe names its own target project.
type InstallRecipeRequest struct {
	Recipe           *model.Recipe
	Project          string
	OverrideExisting bool
}

// RecipeUsecase exports a project's configuration as a recipe document and
// installs recipe documents against a project. It owns no storage; every
// side effect goes through the injected stores.
type RecipeUsecase struct {
	metastore       repository.Metastore
	continuousStore repository.ContinuousQueryStore
	viewStore       repository.MaterializedViewStore
	reportStore     repository.ReportStore
	customReports   repository.CustomReportStore
	customPages     repository.CustomPageCapability
	dashboards      repository.DashboardStore
	bus             eventbus.EventBusInterface
	logger          logger.Logger
}

// NewRecipeUsecase wires the recipe engine against its collaborators.
func NewRecipeUsecase(
	metastore repository.Metastore,
	continuousStore repository.ContinuousQueryStore,
	viewStore repository.MaterializedViewStore,
	reportStore repository.ReportStore,
	customReports repository.CustomReportStore,
	customPages repository.CustomPageCapability,
	dashboards repository.DashboardStore,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *RecipeUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &RecipeUsecase{
		metastore:       metastore,
		continuousStore: continuousStore,
		viewStore:       viewStore,
		reportStore:     reportStore,
		customReports:   customReports,
		customPages:     customPages,
		dashboards:      dashboards,
		bus:             bus,
		logger:          log.WithComponent("recipe-usecase"),
	}
}

// resolveProject picks the target project for an install call: the explicit
// request project wins, then the recipe's own project.
func (uc *RecipeUsecase) resolveProject(req InstallRecipeRequest) (string, error) {
	if req.Project != "" {
		return req.Project, nil
	}
	if req.Recipe != nil && req.Recipe.Project != "" {
		return req.Recipe.Project, nil
	}
	return "", errors.NewValidationError("recipe does not name a project and no project was given")
}

// publishEvent emits a lifecycle event. Audit delivery is best effort and
// never fails the install call.
func (uc *RecipeUsecase) publishEvent(ctx context.Context, eventType string, payload InstallEvent) {
	if uc.bus == nil {
		return
	}
	if requestID, err := utils.GetRequestIDFromContext(ctx); err == nil {
		payload.RequestID = requestID
	}
	payload.Timestamp = time.Now()
	if err := uc.bus.Publish(ctx, eventbus.NewBasicEventWithSource(eventType, payload, "recipe-usecase")); err != nil {
		uc.logger.Warn("Failed to publish install event", "eventType", eventType, "error", err)
	}
}
