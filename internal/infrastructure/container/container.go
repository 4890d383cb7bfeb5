package container

import (
	"fmt"

	"github.com/globalconnect/backend/internal/client/nominatim"
	"github.com/globalconnect/backend/internal/client/osrm"
	"github.com/globalconnect/backend/internal/config"
	"github.com/globalconnect/backend/internal/delivery/http"
	"github.com/globalconnect/backend/internal/delivery/http/handler"
	"github.com/globalconnect/backend/internal/delivery/http/middleware"
	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/infrastructure/database"
	"github.com/globalconnect/backend/internal/infrastructure/logger"
	"github.com/globalconnect/backend/internal/infrastructure/server"
	"github.com/globalconnect/backend/internal/ratelimit"
	"github.com/globalconnect/backend/internal/repository/postgres"
	"github.com/globalconnect/backend/internal/usecase/directions"
	"github.com/globalconnect/backend/internal/usecase/directory"
	"github.com/globalconnect/backend/internal/usecase/register"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize logger
	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Rate limiter: Redis when configured for multi-instance deployments,
	// in-memory otherwise
	var redisClient *redis.Client
	var limiter ratelimit.Limiter
	if cfg.RateLimit.UseRedis {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	// Initialize external service clients
	geocoder := nominatim.NewClient(cfg.Geo.NominatimBaseURL, cfg.Geo.UserAgent, cfg.Geo.RequestTimeout, log)
	routingClient := osrm.NewClient(cfg.Geo.OSRMBaseURL, cfg.Geo.RequestTimeout, log)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	interestRepo := postgres.NewInterestRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Initialize use cases
	directoryUseCase := directory.NewDirectoryUseCase(
		userRepo,
		interestRepo,
		directory.Config{
			DefaultRadiusKm:  cfg.Geo.DefaultRadiusKm,
			MaxRadiusKm:      cfg.Geo.MaxRadiusKm,
			DemoMode:         cfg.Demo.Enabled,
			PlaceholderUsers: cfg.Demo.PlaceholderUsers,
			DefaultCenter: domain.Coordinate{
				Lat: cfg.Demo.DefaultCenterLat,
				Lon: cfg.Demo.DefaultCenterLon,
			},
		},
		log,
	)
	directionsUseCase := directions.NewDirectionsUseCase(routingClient, log)
	registerUseCase := register.NewRegisterUseCase(userRepo, geocoder, log)

	// Initialize handlers
	userHandler := handler.NewUserHandler(directoryUseCase, log)
	geoHandler := handler.NewGeoHandler(geocoder, directionsUseCase)
	registerHandler := handler.NewRegisterHandler(registerUseCase)
	messageHandler := handler.NewMessageHandler(messageRepo)
	diagHandler := handler.NewDiagHandler(db)

	// Initialize middleware
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(limiter, log)

	// Initialize router
	httpRouter := http.NewRouter(
		userHandler,
		geoHandler,
		registerHandler,
		messageHandler,
		diagHandler,
		rateLimitMiddleware,
	)

	// Setup routes
	ginRouter := httpRouter.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	return nil
}
