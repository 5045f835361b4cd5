package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dp-wu/bookradar-backend/internal/handlers"
	"github.com/dp-wu/bookradar-backend/internal/middleware"
)

type RouterConfig struct {
	Debug          bool
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	QueryHandler   *handlers.QueryHandler
	JobsHandler    *handlers.JobsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.POST("/user/password", cfg.UserHandler.ChangePassword)

	query := protected.Group("/query")
	{
		query.GET("/recommendations", cfg.QueryHandler.Recommendations)
		query.GET("/books", cfg.QueryHandler.Books)
		query.GET("/tags", cfg.QueryHandler.Tags)
		query.GET("/history", cfg.QueryHandler.History)
	}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("/:id", cfg.JobsHandler.Status)
		jobs.POST("/crawl", cfg.JobsHandler.EnqueueCrawl)
	}

	return router
}
