package http

import (
	"analytics-platform/internal/analytics/domain/model"

	"github.com/gofiber/fiber/v2"
)

func (h *HTTPHandler) ListContinuousQueries(c *fiber.Ctx) error {
	project := c.Params("project")

	queries, err := h.QueryUC.List(c.UserContext(), project)
	if err != nil {
		h.Log.Error("Failed to list continuous queries", "project", project, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(queries)
}

func (h *HTTPHandler) CreateContinuousQuery(c *fiber.Ctx) error {
	project := c.Params("project")

	var query model.ContinuousQuery
	if err := c.BodyParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": "Failed to parse continuous query",
		})
	}

	if err := h.QueryUC.Create(c.UserContext(), project, query); err != nil {
		h.Log.Error("Failed to create continuous query", "project", project,
			"tableName", query.TableName, "error", err)
		return h.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(query)
}

func (h *HTTPHandler) DeleteContinuousQuery(c *fiber.Ctx) error {
	project := c.Params("project")
	tableName := c.Params("tableName")

	if err := h.QueryUC.Delete(c.UserContext(), project, tableName); err != nil {
		h.Log.Error("Failed to delete continuous query", "project", project,
			"tableName", tableName, "error", err)
		return h.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
