package http

import (
	"analytics-platform/internal/analytics/domain/model"

	"github.com/gofiber/fiber/v2"
)

func (h *HTTPHandler) ListMaterializedViews(c *fiber.Ctx) error {
	project := c.Params("project")

	views, err := h.ViewUC.List(c.UserContext(), project)
	if err != nil {
		h.Log.Error("Failed to list materialized views", "project", project, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(views)
}

func (h *HTTPHandler) CreateMaterializedView(c *fiber.Ctx) error {
	project := c.Params("project")

	var view model.MaterializedView
	if err := c.BodyParser(&view); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse materialized view",
		})
	}

	if err := h.ViewUC.Create(c.UserContext(), project, view); err != nil {
		h.Log.Error("Failed to create materialized view", "project", project,
			"tableName", view.TableName, "error", err)
		return h.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *HTTPHandler) DeleteMaterializedView(c *fiber.Ctx) error {
	project := c.Params("project")
	tableName := c.Params("tableName")

	if err := h.ViewUC.Delete(c.UserContext(), project, tableName); err != nil {
		h.Log.Error("Failed to delete materialized view", "project", project,
			"tableName", tableName, "error", err)
		return h.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
