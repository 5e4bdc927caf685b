package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appAuth "github.com/rulingo/backoffice/internal/app/auth"
	appMigrations "github.com/rulingo/backoffice/internal/app/migrations"
	appRepos "github.com/rulingo/backoffice/internal/app/repositories"
	appServices "github.com/rulingo/backoffice/internal/app/services"
	"github.com/rulingo/backoffice/internal/config"
	"github.com/rulingo/backoffice/internal/db"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// Dependencies holds the wired application services.
type Dependencies struct {
	TutorService      appServices.TutorService
	StudentService    appServices.StudentService
	CourseService     appServices.CourseService
	EnrollmentService appServices.EnrollmentService
	ReportService     appServices.ReportService
	EnrollmentSyncer  appServices.EnrollmentSyncer
	Resolver          *appAuth.Resolver
	Repos             *appRepos.Repositories
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	logger.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	logger.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	logger.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := cfg.Migrations.Dir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		logger.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		logger.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	logger.Info().Msg("Database migrations successfully applied")
	return dbPool, nil
}

// BuildDependencies wires repositories and services over the pool.
func BuildDependencies(dbPool *pgxpool.Pool) *Dependencies {
	repos := appRepos.NewRepositories(dbPool)

	guard := appAuth.NewRoleGuard(repos.ProfileDirectory)
	resolver := appAuth.NewResolver(repos.AccountRepository, repos.TutorRepository)
	syncer := appServices.NewEnrollmentSyncer(repos.StudentRepository, repos.CourseRepository, repos.EnrollmentRepository)

	return &Dependencies{
		TutorService:      appServices.NewTutorService(repos.AccountRepository, repos.TutorRepository, guard),
		StudentService:    appServices.NewStudentService(repos.AccountRepository, repos.TutorRepository, repos.StudentRepository, guard, syncer),
		CourseService:     appServices.NewCourseService(repos.TutorRepository, repos.CourseRepository, syncer),
		EnrollmentService: appServices.NewEnrollmentService(repos.StudentRepository, repos.CourseRepository, repos.EnrollmentRepository),
		ReportService:     appServices.NewReportService(repos.TutorRepository, repos.StudentRepository, repos.CourseRepository, repos.EnrollmentRepository),
		EnrollmentSyncer:  syncer,
		Resolver:          resolver,
		Repos:             repos,
	}
}
