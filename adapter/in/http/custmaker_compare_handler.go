package http

import (
	"custmaker/core/port/in"
	"custmaker/core/service/comparison"
	"custmaker/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CompareHandler serves the reference-vs-actual reports behind the dashboard.
type CompareHandler struct {
	svc in.ComparisonService
}

func NewCompareHandler(svc in.ComparisonService) *CompareHandler {
	return &CompareHandler{svc: svc}
}

func (h *CompareHandler) Register(router fiber.Router) {
	compare := router.Group("/compare")

	compare.Get("/sex", h.Sex)
	compare.Get("/lastname", h.LastName)
	compare.Get("/firstname", h.FirstName)
	compare.Get("/age", h.Ages)
	compare.Get("/age/:age", h.Age)
}

func (h *CompareHandler) Sex(c *fiber.Ctx) error {
	report, err := h.svc.Sex(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, report)
}

// LastName accepts ?top=N, clamped to [1, 25].
func (h *CompareHandler) LastName(c *fiber.Ctx) error {
	top := response.QueryIntClamped(c, "top", comparison.DefaultTopN, 1, comparison.MaxTopN)
	report, err := h.svc.LastNames(c.UserContext(), top)
	if err != nil {
		return err
	}
	return response.OK(c, report)
}

func (h *CompareHandler) FirstName(c *fiber.Ctx) error {
	report, err := h.svc.FirstNames(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return response.OK(c, report)
}

// Ages accepts ?from=&to=, both within [0, 99].
func (h *CompareHandler) Ages(c *fiber.Ctx) error {
	from := response.QueryIntClamped(c, "from", comparison.MinAge, comparison.MinAge, comparison.MaxAge)
	to := response.QueryIntClamped(c, "to", comparison.MaxAge, comparison.MinAge, comparison.MaxAge)
	report, err := h.svc.Ages(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return response.OK(c, report)
}

func (h *CompareHandler) Age(c *fiber.Ctx) error {
	report, err := h.svc.Age(c.UserContext(), c.Params("age"))
	if err != nil {
		return err
	}
	return response.OK(c, report)
}
