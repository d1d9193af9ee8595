package container

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	database "github.com/FACorreiaa/go-travel-planner/app/db"
	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/config"
	"github.com/FACorreiaa/go-travel-planner/internal/api/budget"
	generativeAI "github.com/FACorreiaa/go-travel-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-planner/internal/api/places"
	"github.com/FACorreiaa/go-travel-planner/internal/api/plancache"
	"github.com/FACorreiaa/go-travel-planner/internal/api/planner"
	"github.com/FACorreiaa/go-travel-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-travel-planner/internal/api/recommendations"
	"github.com/FACorreiaa/go-travel-planner/internal/api/retry"
	"github.com/FACorreiaa/go-travel-planner/internal/api/routes"
	"github.com/FACorreiaa/go-travel-planner/internal/api/timeline"
)

const memoryCacheCleanup = 10 * time.Minute

// Container holds all application dependencies
type Container struct {
	Config                 *config.Config
	Logger                 *slog.Logger
	Pool                   *pgxpool.Pool
	Redis                  *redis.Client
	PlannerHandler         *planner.HandlerImpl
	RecommendationsHandler *recommendations.HandlerImpl
	PreferencesHandler     *preferences.HandlerImpl
}

// NewContainer wires repositories, providers, services and handlers on top of
// an initialized pool. Optional providers are skipped when their keys are empty.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	m, err := metrics.NewAppMetrics(otel.GetMeterProvider().Meter("TravelPlanner"))
	if err != nil {
		logger.Error("Failed to create metrics", slog.Any("error", err))
		return nil, err
	}

	h := cfg.Planner.Heuristics
	policy := retry.DefaultPolicy()
	if cfg.Providers.RetryAttempts > 0 {
		policy.Attempts = cfg.Providers.RetryAttempts
	}

	// plan cache: redis first, in-process copy always
	var (
		redisClient *redis.Client
		cache       plancache.Cache = plancache.NewMemoryCache(cfg.Planner.CacheTTL, memoryCacheCleanup)
	)
	if addr := cfg.Repositories.Redis.Addr; addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Repositories.Redis.Password,
			DB:       cfg.Repositories.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, plan cache reads will fall back to memory", slog.Any("error", err))
		}
		cache = plancache.NewFallbackCache(plancache.NewRedisCache(redisClient), cache, logger)
	}

	var placeProvider places.Provider
	var hotels recommendations.HotelProvider
	if key := cfg.Providers.GoogleMapsKey; key != "" {
		gm, err := places.NewGoogleMapsProvider(key, policy, logger)
		if err != nil {
			logger.Error("Failed to create places provider", slog.Any("error", err))
			return nil, err
		}
		placeProvider = gm
		hotels = recommendations.NewPlacesHotelProvider(gm)
	} else {
		logger.Info("Google Maps key not set, using seed and sample data only")
	}

	var notes planner.DayNoteWriter
	if key := cfg.Providers.GeminiKey; key != "" {
		aiClient, err := generativeAI.NewAIClient(ctx, key, cfg.Providers.GeminiModel)
		if err != nil {
			logger.Warn("Day notes disabled", slog.Any("error", err))
		} else {
			notes = generativeAI.NewDayNoteWriter(aiClient, logger)
		}
	}

	preferenceService := preferences.NewServiceImpl(preferences.NewRepository(pool, logger), logger)

	plannerService := planner.NewServiceImpl(planner.Deps{
		Repo:        planner.NewRepository(pool, logger),
		Preferences: preferenceService,
		Analyzer:    preferences.NewAnalyzer(h),
		Allocator:   budget.NewAllocator(h),
		Recommender: places.NewRecommender(placeProvider, h, logger),
		Timeline:    timeline.NewGenerator(h, routes.NewOptimizer(h)),
		Cache:       cache,
		CacheTTL:    cfg.Planner.CacheTTL,
		Notes:       notes,
		Metrics:     m,
	}, logger)

	recommendationsService := recommendations.NewServiceImpl(
		recommendations.NewRepository(pool, logger),
		nil,
		hotels,
		policy,
		m,
		logger,
	)

	return &Container{
		Config:                 cfg,
		Logger:                 logger,
		Pool:                   pool,
		Redis:                  redisClient,
		PlannerHandler:         planner.NewHandler(plannerService, logger),
		RecommendationsHandler: recommendations.NewHandler(recommendationsService, logger),
		PreferencesHandler:     preferences.NewHandler(preferenceService, logger),
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
