package bootstrap

import (
	"context"
	"time"

	"custmaker/adapter/out/memory"
	"custmaker/adapter/out/messaging"
	"custmaker/adapter/out/mongodb"
	"custmaker/adapter/out/persistence"
	"custmaker/config"
	"custmaker/core/port/out"
	"custmaker/core/service/comparison"
	"custmaker/core/service/customer"
	"custmaker/core/service/generator"
	"custmaker/infra/database"
	"custmaker/pkg/cache"
	"custmaker/pkg/logger"
	"custmaker/pkg/metrics"
	"custmaker/pkg/ratelimit"
	"custmaker/pkg/resilience"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	connectTimeout = 15 * time.Second
	runHistorySize = 200
)

type Dependencies struct {
	Config *config.Config

	// Infrastructure
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	ReferenceRepo *persistence.ReferenceAdapter
	CustomerRepo  *persistence.CustomerAdapter
	Source        *persistence.CachedSource
	RunHistory    out.RunHistoryRepository

	// Services
	Tracker           *metrics.GenerationTracker
	Guard             *ratelimit.Guard
	CustomerService   *customer.Service
	ComparisonService *comparison.Service
}

// NewDependencies connects every backing store. Postgres is required; Redis and
// MongoDB are optional and only logged when unreachable. genOpts are applied to
// every generator the customer service creates.
func NewDependencies(ctx context.Context, cfg *config.Config, genOpts ...generator.Option) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	// Database (pgxpool)
	db, err := database.NewPostgres(connectCtx, cfg.DatabaseURL, database.DefaultPostgresConfig(cfg.DBMaxConns))
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, db.Close)

	// Database (sqlx for the adapters)
	sqlDB, err := database.NewSQLX(connectCtx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })
	logger.Info("database connected (pool: max=%d)", cfg.DBMaxConns)

	// Redis
	var (
		referenceCache out.Cache
		runEvents      out.RunEventPublisher
	)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(connectCtx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, reference cache disabled: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			referenceCache = cache.NewRedisCache(redisClient, "custmaker:")
			runEvents = messaging.NewRedisProducer(redisClient)
		}
	}

	// MongoDB
	deps.RunHistory = memory.NewRunHistory(runHistorySize)
	if cfg.MongoDBURL != "" {
		mongoClient, err := database.NewMongo(connectCtx, cfg.MongoDBURL)
		if err != nil {
			logger.Warn("MongoDB connection failed, run history kept in memory: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() { mongoClient.Disconnect(context.Background()) })

			runs := mongodb.NewRunHistoryAdapter(mongoClient.Database(cfg.MongoDBName))
			if err := runs.EnsureIndexes(connectCtx); err != nil {
				logger.Warn("Failed to ensure run history indexes: %v", err)
			}
			deps.RunHistory = runs
		}
	}

	// Repositories
	deps.ReferenceRepo = persistence.NewReferenceAdapter(sqlDB)
	deps.CustomerRepo = persistence.NewCustomerAdapter(sqlDB)
	deps.Source = persistence.NewCachedSource(
		deps.ReferenceRepo,
		referenceCache,
		resilience.NewBreaker(resilience.DefaultBreakerConfig("reference-source")),
		cfg.ReferenceCacheTTL,
	)

	// Services
	deps.Tracker = metrics.NewGenerationTracker(0)
	deps.Guard = ratelimit.NewGuard(deps.Redis, &ratelimit.Config{
		MaxConcurrent:     cfg.GenerateMaxConcurrent,
		RequestsPerWindow: cfg.GenerateRatePerMin,
		Window:            time.Minute,
	})
	deps.CustomerService = customer.NewService(customer.Config{
		Source:      deps.Source,
		Reference:   deps.ReferenceRepo,
		Customers:   deps.CustomerRepo,
		Runs:        deps.RunHistory,
		Events:      runEvents,
		Invalidator: deps.Source,
		Tracker:     deps.Tracker,
		MaxCount:    cfg.GenerateMaxCount,
		NewGenerator: func() *generator.Generator {
			return generator.New(genOpts...)
		},
	})
	deps.ComparisonService = comparison.NewService(deps.Source, deps.CustomerRepo)

	return deps, cleanup, nil
}

// EnsureSchema creates the customer and reference tables.
func (d *Dependencies) EnsureSchema(ctx context.Context) error {
	return persistence.EnsureSchema(ctx, d.SQLDB)
}

func (d *Dependencies) HealthCheck(ctx context.Context) error {
	if err := d.DB.Ping(ctx); err != nil {
		return err
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
