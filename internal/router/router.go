package router

import (
	"sync"

	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/handlers"
	"task-tracker/backend/internal/middleware"
	"task-tracker/backend/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New assembles the gin engine: middleware chain, the /task API group
// and the operational endpoints. The returned cleanup releases router
// resources (the rate limiter's eviction goroutine) and is safe to call
// more than once.
func New(cfg *config.Config, taskHandler *handlers.TaskHandler) (*gin.Engine, func()) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(gin.Logger())
	engine.Use(middleware.RecoveryWithLog())
	engine.Use(middleware.RequestID())
	engine.Use(monitoring.MetricsMiddleware())
	engine.Use(cors.Default())

	cleanup := func() {}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		engine.Use(limiter.Middleware())

		var once sync.Once
		cleanup = func() { once.Do(limiter.Stop) }
	}

	task := engine.Group("/task")
	{
		task.GET("/getTasks", taskHandler.GetTasks)
		task.POST("/createTask", taskHandler.CreateTask)
		task.GET("/getTask/:id", taskHandler.GetTask)
		task.PUT("/updateTask/:id", taskHandler.UpdateTask)
		task.DELETE("/deleteTask/:id", taskHandler.DeleteTask)
	}

	engine.GET("/health", monitoring.HealthHandler())
	engine.GET("/ready", monitoring.ReadinessHandler())
	engine.GET("/live", monitoring.LivenessHandler())
	engine.GET("/metrics", monitoring.MetricsHandler())

	return engine, cleanup
}
