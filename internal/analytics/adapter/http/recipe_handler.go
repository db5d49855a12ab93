package http

import (
	"context"

	"analytics-platform/internal/analytics/adapter/persistence"
	"analytics-platform/internal/analytics/domain/model"
	"analytics-platform/internal/analytics/usecase"

	"github.com/gofiber/fiber/v2"
)

// InstallHistoryReader reads back the recorded install lifecycle of a
// project. Deployments without an audit trail leave it nil.
type InstallHistoryReader interface {
	History(ctx context.Context, project string, limit int64) ([]persistence.AuditEntry, error)
}

// ExportRecipe returns the project's current configuration as a recipe
// document.
func (h *HTTPHandler) ExportRecipe(c *fiber.Ctx) error {
	project := c.Params("project")
	h.Log.Debug("Exporting recipe via HTTP", "project", project)

	recipe, err := h.RecipeUC.Export(c.UserContext(), project)
	if err != nil {
		h.Log.Error("Failed to export recipe", "project", project, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(recipe)
}

// InstallRecipe applies the posted recipe document. The target project comes
// from the project query parameter, falling back to the recipe's own
// project; override=true replaces existing resources.
func (h *HTTPHandler) InstallRecipe(c *fiber.Ctx) error {
	var recipe model.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		h.Log.Error("Failed to parse recipe body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse recipe document",
		})
	}

	req := usecase.InstallRecipeRequest{
		Recipe:           &recipe,
		Project:          c.Query("project"),
		OverrideExisting: c.QueryBool("override"),
	}
	h.Log.Info("Installing recipe via HTTP", "project", req.Project, "override", req.OverrideExisting)

	if err := h.RecipeUC.Install(c.UserContext(), req); err != nil {
		h.Log.Error("Failed to install recipe", "error", err)
		return h.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// InstallHistory returns the most recent install events of a project.
func (h *HTTPHandler) InstallHistory(c *fiber.Ctx) error {
	if h.History == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "history_unavailable",
			"message": "install history is not enabled on this deployment",
		})
	}

	project := c.Params("project")
	limit := int64(c.QueryInt("limit", 100))

	entries, err := h.History.History(c.UserContext(), project, limit)
	if err != nil {
		h.Log.Error("Failed to read install history", "project", project, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(fiber.Map{"project": project, "entries": entries})
}
