package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/handlers"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/router"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T, rateLimitEnabled bool) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		RateLimit: config.RateLimitConfig{
			Enabled:         rateLimitEnabled,
			RequestsPerMin:  6000,
			BurstSize:       100,
			CleanupInterval: time.Minute,
		},
	}

	taskHandler := handlers.NewTaskHandler(db, services.NewTaskService())
	return router.New(cfg, taskHandler)
}

func TestRoutesAreRegistered(t *testing.T) {
	engine, cleanup := setupRouter(t, false)
	defer cleanup()

	routes := map[string]bool{}
	for _, route := range engine.Routes() {
		routes[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /task/getTasks",
		"POST /task/createTask",
		"GET /task/getTask/:id",
		"PUT /task/updateTask/:id",
		"DELETE /task/deleteTask/:id",
		"GET /health",
		"GET /live",
	}
	for _, route := range want {
		if !routes[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}

func TestCleanupStopsRateLimiter(t *testing.T) {
	engine, cleanup := setupRouter(t, true)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/live", nil)
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("GET /live = %d, want 200", recorder.Code)
	}

	// repeated calls must not panic once the limiter is stopped
	cleanup()
	cleanup()
}

func TestCleanupIsNoopWithoutRateLimiter(t *testing.T) {
	_, cleanup := setupRouter(t, false)
	cleanup()
	cleanup()
}
