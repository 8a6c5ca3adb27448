package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/lifelearn/lifelearn/internal/app/auth"
	appControllers "github.com/lifelearn/lifelearn/internal/app/controllers"
	appMigrations "github.com/lifelearn/lifelearn/internal/app/migrations"
	appRepos "github.com/lifelearn/lifelearn/internal/app/repositories"
	appRoutes "github.com/lifelearn/lifelearn/internal/app/routes"
	appServices "github.com/lifelearn/lifelearn/internal/app/services"
	"github.com/lifelearn/lifelearn/internal/config"
	"github.com/lifelearn/lifelearn/internal/db"
	appMiddleware "github.com/lifelearn/lifelearn/internal/middleware"
	pkgAuth "github.com/lifelearn/lifelearn/internal/pkg/auth"
	"github.com/lifelearn/lifelearn/internal/pkg/cache"
	"github.com/lifelearn/lifelearn/internal/pkg/helpers"
	"github.com/lifelearn/lifelearn/internal/pkg/logger"
	"github.com/lifelearn/lifelearn/internal/pkg/payment"
	"github.com/lifelearn/lifelearn/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	UserService          appServices.UserService
	CourseService        appServices.CourseService
	EnrollmentService    appServices.EnrollmentService
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	CourseController     *appControllers.CourseController
	EnrollmentController *appControllers.EnrollmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	PaymentProvider      payment.Provider
	Cache                *cache.Cache
	Logger               zerolog.Logger
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

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.PaymentProvider = payment.NewHTTPProvider(cfg.Payment.BaseURL, cfg.Payment.SecretKey)

	// Redis is optional; leave the cache nil when no address is configured
	if cfg.Redis.Addr != "" {
		deps.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := deps.Cache.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, running without cache")
			deps.Cache = nil
		}
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.AuthzService, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.UserRepository, deps.Cache, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.CourseRepository,
		deps.Repos.SelectionRepository,
		deps.Repos.PaymentRepository,
		deps.Repos.EnrollmentRepository,
		deps.PaymentProvider,
		deps.AuthzService,
		deps.Cache,
		cfg.Payment.Currency,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)

	return deps, nil
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

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CourseController,
		deps.EnrollmentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
