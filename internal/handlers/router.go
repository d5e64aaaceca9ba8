package handlers

import (
	"taskify/backend/internal/config"
	"taskify/backend/internal/middleware"
	"taskify/backend/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the HTTP surface: public user endpoints, token-guarded
// task endpoints, and the monitoring endpoints.
func NewRouter(cfg *config.Config, userHandler *UserHandler, taskHandler *TaskHandler, metrics *monitoring.Metrics, health *monitoring.HealthChecker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(cors.Default())
	router.Use(metrics.Middleware())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		router.Use(limiter.Middleware())
	}

	router.GET("/health", health.Handler())
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/refresh", userHandler.Refresh)
		users.POST("/logout", userHandler.Logout)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.GetTasks)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return router
}
