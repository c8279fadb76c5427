package bootstrap

import (
	"context"

	"custmaker/adapter/in/http"
	"custmaker/config"
	"custmaker/infra/middleware"
	"custmaker/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// NewAPI wires the HTTP server over freshly connected dependencies.
func NewAPI(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	deps, cleanup, err := NewDependencies(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	if err := deps.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return NewApp(cfg, deps), cleanup, nil
}

// NewApp builds the fiber application and registers every route.
func NewApp(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		// go-json for request and response bodies
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 1 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.RequestLogger())

	var health *http.HealthHandler
	if deps.DB != nil {
		health = http.NewHealthHandlerWithDeps(deps.DB, deps.Redis, deps.SQLDB.Stats)
	} else {
		health = http.NewHealthHandler()
	}
	health.Register(app)
	http.NewDashboardHandler().Register(app)

	api := app.Group("/api/v1")
	http.NewCompareHandler(deps.ComparisonService).Register(api)
	http.NewCustomerHandler(deps.CustomerService, deps.Tracker).
		Register(api,
			middleware.AdminAuth(cfg.AdminJWTSecret, cfg.IsDevelopment()),
			middleware.GenerationLimit(deps.Guard),
		)

	return app
}
