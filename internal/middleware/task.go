package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskgraph/internal/errors"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
)

// LoadTask resolves the :id parameter to a task and stores it in the context
func LoadTask(engine *services.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := services.ParseTaskID(c.Param("id"))
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		task, err := engine.Tasks.GetTask(taskID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by LoadTask
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}
