package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storyboard_automation/internal/platform"
	"storyboard_automation/settings"
)

func main() {
	client, db := platform.NewMongoDatabase()
	defer client.Disconnect(context.Background())
	rdb := platform.NewRedisClient()

	store := settings.NewStore(db)
	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create settings index: %v", err)
	}

	h := &Handler{
		DB:         db,
		Redis:      rdb,
		Settings:   store,
		AssetsDir:  platform.AssetsDir(),
		ExportsDir: platform.ExportsDir(),
	}
	if err := os.MkdirAll(h.ExportsDir, 0755); err != nil {
		log.Fatalf("Failed to create exports directory: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// Routes
	r.GET("/health", h.healthCheck)

	r.POST("/api/projects", h.createProject)
	r.GET("/api/projects", h.listProjects)
	r.GET("/api/projects/:id", h.getProject)
	r.DELETE("/api/projects/:id", h.deleteProject)

	r.POST("/api/projects/:id/storyboards", h.createStoryboard)
	r.GET("/api/storyboards", h.listStoryboards)
	r.GET("/api/storyboards/:id", h.getStoryboard)
	r.GET("/api/storyboards/:id/scenes", h.getScenes)
	r.GET("/api/storyboards/:id/export/spreadsheet", h.exportSpreadsheet)
	r.GET("/api/storyboards/:id/export/prompts", h.exportPrompts)
	r.GET("/api/storyboards/:id/export/archive", h.exportArchive)
	r.GET("/ws/storyboards/:id", h.streamProgress)

	r.GET("/api/settings", h.listSettings)
	r.GET("/api/settings/:key", h.getSetting)
	r.PUT("/api/settings/:key", h.putSetting)
	r.DELETE("/api/settings/:key", h.deleteSetting)

	// Start server
	port := platform.Port("8085")
	log.Printf("🎬 Storyboard API Server starting on port %s", port)
	log.Fatal(r.Run(":" + port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
