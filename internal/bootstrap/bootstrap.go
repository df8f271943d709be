package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/tuhmaz/edu/internal/app/controllers"
	appMigrations "github.com/tuhmaz/edu/internal/app/migrations"
	"github.com/tuhmaz/edu/internal/app/notifications"
	appRepos "github.com/tuhmaz/edu/internal/app/repositories"
	appRoutes "github.com/tuhmaz/edu/internal/app/routes"
	appServices "github.com/tuhmaz/edu/internal/app/services"
	"github.com/tuhmaz/edu/internal/config"
	"github.com/tuhmaz/edu/internal/db"
	appMiddleware "github.com/tuhmaz/edu/internal/middleware"
	pkgAuth "github.com/tuhmaz/edu/internal/pkg/auth"
	"github.com/tuhmaz/edu/internal/pkg/content"
	"github.com/tuhmaz/edu/internal/pkg/filestorage"
	"github.com/tuhmaz/edu/internal/pkg/helpers"
	"github.com/tuhmaz/edu/internal/pkg/logger"
	"github.com/tuhmaz/edu/internal/pkg/metrics"
	"github.com/tuhmaz/edu/internal/pkg/push"
	"github.com/tuhmaz/edu/internal/pkg/validation"
	"github.com/tuhmaz/edu/internal/pkg/websocket"
	"github.com/tuhmaz/edu/internal/seed"
	"github.com/tuhmaz/edu/internal/tenant"
)

// UserPartition holds the user directory and the in-app notifications
const UserPartition = tenant.DefaultConnection

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	FileStorage       *filestorage.LocalStorage
	Hub               *websocket.Hub
	Dispatcher        *notifications.Dispatcher
	PoolStats         *metrics.PoolStatsCollector
	ArticleService    appServices.ArticleService
	KeywordService    appServices.KeywordService
	CatalogService    appServices.CatalogService
	ArticleController *appControllers.ArticleController
	KeywordController *appControllers.KeywordController
	WebsocketHandler  *websocket.Handler
	AuthMiddleware    *appMiddleware.AuthMiddleware
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens every partition, applies the schema and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Registry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Int("partitions", len(cfg.Database.Partitions)).Msg("Establishing database connections...")
	registry, err := db.OpenRegistry(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if err := registry.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		registry.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connections successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.MigrateAll(ctx, registry, lgr); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		registry.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	store := appRepos.NewPartitionStore(registry)
	partitions := make(map[tenant.Connection]*appRepos.Repositories, len(registry.Connections()))
	for _, conn := range registry.Connections() {
		repos, err := store.Repositories(conn)
		if err != nil {
			registry.Close()
			return nil, err
		}
		partitions[conn] = repos
	}

	admin := seed.Admin{
		Email:    cfg.Seed.AdminEmail,
		Name:     cfg.Seed.AdminName,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, partitions, UserPartition, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return registry, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, registry *db.Registry, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Store = appRepos.NewPartitionStore(registry)

	baseURL := strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads", lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Hub = websocket.NewHub(lgr)
	deps.WebsocketHandler = websocket.NewHandler(deps.Hub, lgr)

	userRepos, err := deps.Store.Repositories(UserPartition)
	if err != nil {
		return nil, fmt.Errorf("failed to open user partition: %w", err)
	}

	deps.Dispatcher = notifications.NewDispatcher(
		notifications.Config{
			QueueSize:     cfg.Notifications.QueueSize,
			Workers:       cfg.Notifications.Workers,
			UserBatchSize: cfg.Notifications.UserBatchSize,
			ArticleURL: func(e notifications.ArticlePublished) string {
				return fmt.Sprintf("%s/dashboard/articles/%d?country=%s", baseURL, e.ArticleID, e.Connection.Country())
			},
		},
		newPushClient(cfg, lgr),
		deps.Hub,
		userRepos.Users,
		userRepos.Notifications,
		lgr.With().Str("component", "notifications").Logger(),
	)

	pools := make(map[string]*pgxpool.Pool, len(registry.Connections()))
	for _, conn := range registry.Connections() {
		pg, err := registry.Get(conn)
		if err != nil {
			return nil, err
		}
		pools[conn.String()] = pg.Pool
	}
	deps.PoolStats = metrics.NewPoolStatsCollector(pools)

	deps.ArticleService = appServices.NewArticleService(
		deps.Store,
		deps.FileStorage,
		deps.Dispatcher,
		content.NewLinker(cfg.Links.KeywordBasePath),
		helpers.ParseDuration(cfg.Cache.ArticleListTTL, time.Minute),
		lgr.With().Str("component", "articles").Logger(),
	)
	deps.KeywordService = appServices.NewKeywordService(deps.Store, deps.FileStorage)
	deps.CatalogService = appServices.NewCatalogService(deps.Store)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ArticleController = appControllers.NewArticleController(deps.ArticleService, deps.CatalogService)
	deps.KeywordController = appControllers.NewKeywordController(deps.KeywordService)

	return deps, nil
}

func newPushClient(cfg *config.Config, lgr zerolog.Logger) push.Broadcaster {
	if !cfg.Notifications.PushEnabled {
		lgr.Info().Msg("Push notifications disabled")
		return push.Noop{}
	}
	return push.NewOneSignalClient(push.Config{
		Endpoint: cfg.Notifications.PushEndpoint,
		AppID:    cfg.Notifications.PushAppID,
		APIKey:   cfg.Notifications.PushAPIKey,
		Rate:     cfg.Notifications.PushRate,
		Burst:    cfg.Notifications.PushBurst,
	}, lgr.With().Str("component", "push").Logger())
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.AccessLog(lgr),
		appMiddleware.Metrics(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.ArticleController,
		deps.KeywordController,
		deps.WebsocketHandler,
		deps.AuthMiddleware,
	)

	return router
}
