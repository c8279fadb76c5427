package http

import (
	"context"
	"database/sql"
	"time"

	"custmaker/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	redis     *redis.Client
	poolStats func() sql.DBStats
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// NewHealthHandlerWithDeps wires the readiness checks. Any argument may be nil.
func NewHealthHandlerWithDeps(db Pinger, redis *redis.Client, poolStats func() sql.DBStats) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redis,
		poolStats: poolStats,
	}
}

func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["postgres"] = "healthy"
		}
	} else {
		checks["postgres"] = "not configured"
		allHealthy = false
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// the cache is optional; reads fall through to postgres
			checks["redis"] = "degraded: " + err.Error()
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	body := fiber.Map{
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.poolStats != nil {
		pool := metrics.AssessPool(h.poolStats())
		body["pool"] = pool
		if pool.Status == metrics.PoolUnhealthy {
			allHealthy = false
		}
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}
	body["status"] = status

	return c.Status(statusCode).JSON(body)
}
