package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskgraph/internal/middleware"
	"github.com/yukikurage/taskgraph/internal/services"
)

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, engine *services.Engine, breakdown *services.BreakdownService) {
	taskHandler := NewTaskHandler(engine, breakdown)
	sessionHandler := NewSessionHandler()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "taskgraph API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.SessionAuthor())
	{
		api.PUT("/session/author", sessionHandler.SetAuthor)
		api.GET("/tags", taskHandler.ListTags)
		api.GET("/stats", taskHandler.Stats)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)

			task := tasks.Group("/:id")
			task.Use(middleware.LoadTask(engine))
			{
				task.GET("", taskHandler.GetTask)
				task.PATCH("", taskHandler.UpdateTask)
				task.DELETE("", taskHandler.DeleteTask)
				task.GET("/children", taskHandler.GetChildren)
				task.GET("/subtree", taskHandler.GetSubtree)
				task.PUT("/parent", taskHandler.SetParent)
				task.GET("/blockers", taskHandler.ListBlockers)
				task.POST("/blockers", taskHandler.AddBlocker)
				task.DELETE("/blockers/:blocker_id", taskHandler.RemoveBlocker)
				task.GET("/blocked", taskHandler.ListBlocked)
				task.POST("/tags", taskHandler.AddTag)
				task.DELETE("/tags/:tag", taskHandler.RemoveTag)
				task.PUT("/metadata/:key", taskHandler.SetMetadata)
				task.DELETE("/metadata/:key", taskHandler.DeleteMetadata)
				task.POST("/breakdown", taskHandler.Breakdown)
			}
		}
	}
}
