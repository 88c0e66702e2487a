package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"bossa/database"
	"bossa/handlers"
	"bossa/middleware"
)

func main() {
	godotenv.Load()

	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig()))

	r.GET("/health", handlers.HealthCheck)

	r.GET("/projects", handlers.ListProjects(db))
	r.POST("/projects", handlers.CreateProject(db))
	r.GET("/projects/:id", handlers.GetProject(db))
	r.PUT("/projects/:id", handlers.UpdateProject(db))
	r.DELETE("/projects/:id", handlers.DeleteProject(db))

	r.GET("/tasks", handlers.ListTasks(db))
	r.POST("/tasks", handlers.CreateTask(db))
	r.GET("/tasks/:id", handlers.GetTask(db))
	r.PUT("/tasks/:id", handlers.UpdateTask(db))
	r.DELETE("/tasks/:id", handlers.DeleteTask(db))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}

// corsConfig allows the dashboard frontend, which is served from a
// different origin, to call the API. CORS_ORIGINS is a comma-separated
// list; unset means any origin.
func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		config.AllowAllOrigins = true
		return config
	}

	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			config.AllowOrigins = append(config.AllowOrigins, trimmed)
		}
	}
	return config
}
