package http

import (
	"custmaker/core/port/in"
	"custmaker/pkg/apperr"
	"custmaker/pkg/metrics"
	"custmaker/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler exposes generation and the run history.
type CustomerHandler struct {
	svc     in.CustomerService
	tracker *metrics.GenerationTracker
}

func NewCustomerHandler(svc in.CustomerService, tracker *metrics.GenerationTracker) *CustomerHandler {
	return &CustomerHandler{svc: svc, tracker: tracker}
}

// Register mounts the routes. admin guards the routes that write to the
// customer table; limit, when set, throttles generation.
func (h *CustomerHandler) Register(router fiber.Router, admin, limit fiber.Handler) {
	router.Get("/runs", h.ListRuns)
	router.Get("/stats", h.Stats)

	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	customers := router.Group("/customers")
	customers.Post("/generate", admin, limit, h.Generate)
	customers.Delete("/", admin, h.Reset)
}

func (h *CustomerHandler) Generate(c *fiber.Ctx) error {
	var req in.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.JoinDate == "" {
		return apperr.MissingField("join_date")
	}

	run, err := h.svc.Generate(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, run)
}

func (h *CustomerHandler) Reset(c *fiber.Ctx) error {
	if err := h.svc.Reset(c.UserContext()); err != nil {
		return err
	}
	return response.NoContent(c)
}

func (h *CustomerHandler) ListRuns(c *fiber.Ctx) error {
	limit := response.QueryIntClamped(c, "limit", 20, 1, 100)
	runs, err := h.svc.RecentRuns(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, runs, &response.Meta{Total: len(runs), Limit: limit})
}

func (h *CustomerHandler) Stats(c *fiber.Ctx) error {
	if h.tracker == nil {
		return response.OK(c, metrics.GenerationStats{})
	}
	return response.OK(c, h.tracker.Stats())
}
