package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/rosterhub/internal/app/controllers"
	appMigrations "github.com/yigit/rosterhub/internal/app/migrations"
	appRepos "github.com/yigit/rosterhub/internal/app/repositories"
	appRoutes "github.com/yigit/rosterhub/internal/app/routes"
	appServices "github.com/yigit/rosterhub/internal/app/services"
	"github.com/yigit/rosterhub/internal/config"
	"github.com/yigit/rosterhub/internal/db"
	appMiddleware "github.com/yigit/rosterhub/internal/middleware"
	pkgAuth "github.com/yigit/rosterhub/internal/pkg/auth"
	"github.com/yigit/rosterhub/internal/pkg/helpers"
	"github.com/yigit/rosterhub/internal/pkg/logger"
	"github.com/yigit/rosterhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService    *appServices.StudentService
	ImportService     *appServices.ImportService
	ExportService     *appServices.ExportService
	LinkService       *appServices.LinkService
	CourseService     *appServices.CourseService
	AuthService       *appServices.AuthService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	LinkController    *appControllers.LinkController
	CourseController  *appControllers.CourseController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.ApplyDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
		// Seeding failures are logged but never block startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	students := deps.Repos.StudentRepository
	courses := deps.Repos.CourseRepository
	parents := deps.Repos.ParentRepository

	deps.StudentService = appServices.NewStudentService(students, courses)
	deps.ImportService = appServices.NewImportService(students, courses)
	deps.ExportService = appServices.NewExportService(students, courses)
	deps.CourseService = appServices.NewCourseService(courses)
	deps.AuthService = appServices.NewAuthService(parents, deps.JWTService)

	deps.LinkService = appServices.NewLinkService(students, parents)
	retention := helpers.ParseDuration(cfg.Roster.RejectionRetention, appServices.RejectionRetention)
	deps.LinkService.SetRetention(retention)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.ImportService, deps.ExportService)
	deps.LinkController = appControllers.NewLinkController(deps.LinkService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)

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

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.LinkController,
		deps.CourseController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
