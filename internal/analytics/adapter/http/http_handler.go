// Package http exposes the analytics REST API on Fiber.
package http

import (
	"context"
	"errors"

	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/usecase"
	"analytics-platform/internal/shared/database"
	apperrors "analytics-platform/internal/shared/errors"
	"analytics-platform/internal/shared/logger"
	"analytics-platform/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaterializedViewService is the slice of the materialized view usecase the
// handlers need.
type MaterializedViewService interface {
	List(ctx context.Context, project string) ([]model.MaterializedView, error)
	Create(ctx context.Context, project string, view model.MaterializedView) error
	Delete(ctx context.Context, project, tableName string) error
}

// ContinuousQueryService is the slice of the continuous query usecase the
// handlers need.
type ContinuousQueryService interface {
	List(ctx context.Context, project string) ([]model.ContinuousQuery, error)
	Create(ctx context.Context, project string, query model.ContinuousQuery) error
	Delete(ctx context.Context, project, tableName string) error
}

// DashboardService is the read surface the dashboard handlers need.
type DashboardService interface {
	List(ctx context.Context, project string) ([]model.Dashboard, error)
	Get(ctx context.Context, project, name string) (*model.Dashboard, error)
}

// HTTPHandler wires the analytics REST API.
type HTTPHandler struct {
	RecipeUC    usecase.RecipeUsecaseInterface
	ViewUC      MaterializedViewService
	QueryUC     ContinuousQueryService
	DashboardUC DashboardService
	History     InstallHistoryReader
	Log         logger.Logger
}

// NewHTTPHandler creates the API handler.
func NewHTTPHandler(
	recipeUC usecase.RecipeUsecaseInterface,
	viewUC MaterializedViewService,
	queryUC ContinuousQueryService,
	dashboardUC DashboardService,
	history InstallHistoryReader,
	log logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		RecipeUC:    recipeUC,
		ViewUC:      viewUC,
		QueryUC:     queryUC,
		DashboardUC: dashboardUC,
		History:     history,
		Log:         log.WithComponent("http-handler"),
	}
}

// RegisterRoutes registers the API under /api/v1.
func (h *HTTPHandler) RegisterRoutes(router fiber.Router) {
	v1 := router.Group("/v1", RequestIDMiddleware())

	v1.Post("/recipes/install", h.InstallRecipe)

	projectAPI := v1.Group("/projects/:project", ProjectMiddleware())
	projectAPI.Get("/recipe", h.ExportRecipe)
	projectAPI.Get("/recipe/history", h.InstallHistory)

	projectAPI.Get("/materialized-views", h.ListMaterializedViews)
	projectAPI.Post("/materialized-views", h.CreateMaterializedView)
	projectAPI.Delete("/materialized-views/:tableName", h.DeleteMaterializedView)

	projectAPI.Get("/continuous-queries", h.ListContinuousQueries)
	projectAPI.Post("/continuous-queries", h.CreateContinuousQuery)
	projectAPI.Delete("/continuous-queries/:tableName", h.DeleteContinuousQuery)

	projectAPI.Get("/dashboards", h.ListDashboards)
	projectAPI.Get("/dashboards/:name", h.GetDashboard)
}

// RequestIDMiddleware assigns each request an id and threads it through the
// user context for log correlation.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("X-Request-ID", requestID)
		c.SetUserContext(utils.WithRequestID(c.UserContext(), requestID))
		return c.Next()
	}
}

// ProjectMiddleware validates the project path parameter and threads it
// through the user context.
func ProjectMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		project := c.Params("project")
		if !database.ValidProjectName(project) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "invalid_project",
				"message": "project name is invalid",
			})
		}
		c.SetUserContext(utils.WithProject(c.UserContext(), project))
		return c.Next()
	}
}

// sendError maps an application error onto an HTTP response. Schema
// collisions get their own shape so callers can render every offending pair.
func (h *HTTPHandler) sendError(c *fiber.Ctx, err error) error {
	var collision *model.SchemaCollisionError
	if errors.As(err, &collision) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "schema_collision",
			"message":    collision.Error(),
			"collisions": collision.Collisions,
		})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(appErr)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": err.Error(),
	})
}
