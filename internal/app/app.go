package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/db"
	"github.com/dp-wu/bookradar-backend/internal/handlers"
	"github.com/dp-wu/bookradar-backend/internal/jobs/runtime"
	"github.com/dp-wu/bookradar-backend/internal/jobs/tasks"
	"github.com/dp-wu/bookradar-backend/internal/jobs/worker"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/middleware"
	"github.com/dp-wu/bookradar-backend/internal/server"
)

// App is the application factory's product: every handle the process needs,
// wired explicitly at startup. No package-level singletons.
type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Registry *runtime.Registry

	dbService *db.Service
	worker    *worker.Worker
	cancel    context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbService, err := db.NewService(cfg.DatabaseURI, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)

	registry := runtime.NewRegistry()
	if err := registry.Register(tasks.NewIngestBatchHandler(log, serviceset.Ledger)); err != nil {
		log.Sync()
		return nil, err
	}
	if err := registry.Register(tasks.NewClassifyHandler(log, serviceset.Ledger)); err != nil {
		log.Sync()
		return nil, err
	}

	jobWorker := worker.NewWorker(theDB, log, reposet.JobRun, registry, serviceset.Notifier, cfg.WorkerConcurrency)

	authHandler := handlers.NewAuthHandler(serviceset.Auth)
	userHandler := handlers.NewUserHandler(serviceset.User)
	queryHandler := handlers.NewQueryHandler(serviceset.Query)
	jobsHandler := handlers.NewJobsHandler(serviceset.Crawl)
	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth, serviceset.Identity)

	router := server.NewRouter(server.RouterConfig{
		Debug:          cfg.Debug,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		QueryHandler:   queryHandler,
		JobsHandler:    jobsHandler,
	})

	return &App{
		Log:       log,
		DB:        theDB,
		Router:    router,
		Cfg:       cfg,
		Repos:     reposet,
		Services:  serviceset,
		Registry:  registry,
		dbService: dbService,
		worker:    jobWorker,
	}, nil
}

// Start launches the background worker pool. Idempotent.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.worker.Start(ctx)
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Failed to close database", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
