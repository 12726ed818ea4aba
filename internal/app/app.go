package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/infra/events"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/auth"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/collaboration"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/notification"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/sheet"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/user"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/cache"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/config"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/database"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/logger"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/metrics"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// App wires the modules together and owns shared infrastructure.
type App struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	metrics *metrics.Metrics

	eventBus  *events.Bus
	validator *jwtValidator

	authHandler   *auth.Handler
	userHandler   *user.Handler
	sheetHandler  *sheet.Handler
	collabHandler *collaboration.Handler
	notifHandler  *notification.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New("etherx", prometheus.DefaultRegisterer),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()

	return app, nil
}

// initModules builds every module and wires their cross-dependencies.
func (a *App) initModules() error {
	a.eventBus = events.NewBus(a.logger)

	// User
	userRepo := user.NewRepository(a.db)
	userService := user.NewService(userRepo, a.logger)
	a.userHandler = user.NewHandler(userService)

	// Auth
	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		Secret:             a.config.Auth.JWTSecret,
		AccessTokenExpiry:  a.config.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: a.config.Auth.RefreshTokenExpiry,
		Issuer:             "etherx",
	})
	throttle := auth.NewLoginThrottle(a.redis, a.config.Auth.LoginAttemptLimit, a.config.Auth.LoginAttemptWindow)
	tokenRepo := auth.NewRefreshTokenRepository(a.db)
	authService := auth.NewService(userService, tokenRepo, jwtManager, throttle, a.logger)
	a.authHandler = auth.NewHandler(authService, a.metrics)

	// Collaboration
	collabStore := collaboration.NewRedisStore(a.redis)
	collabService := collaboration.NewService(collabStore, &collaboration.Config{
		ActiveWindow: a.config.Collab.ActiveWindow,
		BaseURL:      a.config.Collab.BaseURL,
		LinkExpiry:   a.config.Collab.LinkExpiry,
	}, &busNotifier{bus: a.eventBus}, a.logger)

	// Sheet
	var snapshots *sheet.SnapshotStore
	if a.config.Storage.Enabled() {
		var err error
		snapshots, err = sheet.NewSnapshotStore(&sheet.SnapshotConfig{
			Endpoint:        a.config.Storage.Endpoint,
			Region:          a.config.Storage.Region,
			AccessKeyID:     a.config.Storage.AccessKeyID,
			SecretAccessKey: a.config.Storage.SecretAccessKey,
			Bucket:          a.config.Storage.Bucket,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("init snapshot storage: %w", err)
		}
	}
	sheetRepo := sheet.NewRepository(a.db)
	sheetService := sheet.NewService(sheetRepo, collabService, snapshots, a.logger)
	a.sheetHandler = sheet.NewHandler(sheetService)

	a.collabHandler = collaboration.NewHandler(collabService, &documentResolver{repo: sheetRepo}, a.metrics)

	// Notification
	notifRepo := notification.NewRepository(a.db)
	notifService := notification.NewService(notifRepo, a.logger)
	a.notifHandler = notification.NewHandler(notifService)
	a.eventBus.Register(notification.NewEventHandler(notifService, a.logger))

	// Auth middleware is attached in setupRouter via the validator adapter.
	a.validator = &jwtValidator{service: authService}

	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))
	if a.config.Server.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(&redisRateLimiter{
			client: a.redis,
			limit:  a.config.Server.RateLimitPerMin,
			window: time.Minute,
		}, a.logger))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	a.authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(a.validator))
	a.userHandler.RegisterRoutes(protected)
	a.sheetHandler.RegisterRoutes(protected)
	a.collabHandler.RegisterRoutes(protected)
	a.notifHandler.RegisterRoutes(protected)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases shared resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := cache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
