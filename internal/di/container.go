package di

import (
	"time"

	"github.com/bareloved/gigpack-sub000/internal/handler"
	"github.com/bareloved/gigpack-sub000/internal/repository"
	"github.com/bareloved/gigpack-sub000/internal/service"
	"github.com/bareloved/gigpack-sub000/pkg/database"
	"github.com/bareloved/gigpack-sub000/pkg/redis"
)

// Container holds all dependencies for the gigpack api
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher service.EventPublisher

	// Repositories
	BandRepo    repository.BandRepository
	GigPackRepo repository.GigPackRepository

	// Services
	BandService    service.BandService
	GigPackService service.GigPackService

	// Handlers
	HealthHandler  *handler.HealthHandler
	BandHandler    *handler.BandHandler
	GigPackHandler *handler.GigPackHandler
	PublicHandler  *handler.PublicHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB    *database.PostgresDB
	Redis *redis.Client
	// Publisher defaults to a no-op publisher
	Publisher service.EventPublisher

	// CacheEnabled wraps repositories with Redis read-through caches
	CacheEnabled bool
	BandTTL      time.Duration
	PublicTTL    time.Duration
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
	}
	if c.Publisher == nil {
		c.Publisher = service.NewNoOpEventPublisher()
	}

	// Initialize repositories
	pgBandRepo := repository.NewPostgresBandRepository(c.DB.Pool())
	pgGigPackRepo := repository.NewPostgresGigPackRepository(c.DB.Pool())

	// Wrap with cache if Redis is available
	if c.Redis != nil && cfg.CacheEnabled {
		c.BandRepo = repository.NewCachedBandRepository(pgBandRepo, c.Redis, cfg.BandTTL)
		c.GigPackRepo = repository.NewCachedGigPackRepository(pgGigPackRepo, c.Redis, cfg.PublicTTL)
	} else {
		c.BandRepo = pgBandRepo
		c.GigPackRepo = pgGigPackRepo
	}

	// Initialize services
	c.BandService = service.NewBandService(c.BandRepo)
	c.GigPackService = service.NewGigPackService(c.GigPackRepo, c.BandRepo, c.Publisher)

	// Initialize handlers
	var redisCheck handler.HealthChecker
	if c.Redis != nil {
		redisCheck = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(c.DB, redisCheck)
	c.BandHandler = handler.NewBandHandler(c.BandService)
	c.GigPackHandler = handler.NewGigPackHandler(c.GigPackService)
	c.PublicHandler = handler.NewPublicHandler(c.GigPackService)

	return c
}
