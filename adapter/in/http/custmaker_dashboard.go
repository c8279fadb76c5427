package http

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/dashboard.html
var dashboardHTML []byte

// DashboardHandler serves the single-page comparison dashboard. The page draws
// its charts from the /api/v1/compare endpoints.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) Register(app *fiber.App) {
	app.Get("/", h.Index)
}

func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(dashboardHTML)
}
