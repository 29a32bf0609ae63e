package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/graphbus/graphbus-starter-project/internal/agents"
	"github.com/graphbus/graphbus-starter-project/internal/api"
	"github.com/graphbus/graphbus-starter-project/internal/auth"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

func main() {
	// Persistence: Postgres when configured, in-memory otherwise so a
	// bare `go run ./cmd/server` works out of the box.
	var (
		st store.Store
		pg *store.Postgres
	)
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_PASSWORD") != "" {
		var err error
		pg, err = store.Connect()
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		st = pg
	} else {
		log.Println("No database configured, using in-memory store")
		st = store.NewMemory()
	}

	// Bus and agents. Registration order fixes delivery order per
	// topic, so all agents are constructed here, before the server
	// accepts traffic.
	b := bus.New()
	agents.NewNotification(b)
	taskManagerAgent := agents.NewTaskManager(b, st)
	registrationAgent := agents.NewRegistration(b, st)
	authAgent := agents.NewAuth(b, st, auth.Issuer{})
	api.Wire(registrationAgent, authAgent, taskManagerAgent, st)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Starting GraphBus backend server on :" + port + "...")
	router := gin.Default()

	// OpenTelemetry tracing (optional)
	if shutdown, ok := api.SetupOTelFromEnv(); ok {
		defer shutdown(context.Background())
		router.Use(otelgin.Middleware("graphbus-backend"))
	}
	router.Use(api.MetricsMiddleware())
	router.Use(api.RequestIDMiddleware())

	config := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// Override allowed origins via env (comma-separated)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.AllowAllOrigins = false
		parts := strings.Split(origins, ",")
		allow := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				allow = append(allow, s)
			}
		}
		if len(allow) > 0 {
			config.AllowOrigins = allow
		}
	}
	router.Use(cors.New(config))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/readyz", func(c *gin.Context) {
		if pg == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 300*time.Millisecond)
		defer cancel()
		if err := pg.DB().PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRoutes := router.Group("/auth")
	authRoutes.Use(api.RateLimitMiddlewareFromEnv())
	{
		authRoutes.POST("/register", api.RegisterUser)
		authRoutes.POST("/login", api.LoginUser)
		authRoutes.GET("/me", api.AuthMiddleware(), api.GetMe)
	}

	taskRoutes := router.Group("/tasks")
	taskRoutes.Use(api.AuthMiddleware())
	{
		taskRoutes.GET("", api.ListTasks)
		taskRoutes.POST("", api.CreateTask)
		taskRoutes.PUT("/:taskId", api.UpdateTask)
		taskRoutes.DELETE("/:taskId", api.DeleteTask)
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
