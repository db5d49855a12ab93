package http

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HTTPHandler) ListDashboards(c *fiber.Ctx) error {
	project := c.Params("project")

	dashboards, err := h.DashboardUC.List(c.UserContext(), project)
	if err != nil {
		h.Log.Error("Failed to list dashboards", "project", project, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(dashboards)
}

func (h *HTTPHandler) GetDashboard(c *fiber.Ctx) error {
	project := c.Params("project")
	name := c.Params("name")

	dashboard, err := h.DashboardUC.Get(c.UserContext(), project, name)
	if err != nil {
		h.Log.Error("Failed to get dashboard", "project", project, "name", name, "error", err)
		return h.sendError(c, err)
	}
	return c.JSON(dashboard)
}
