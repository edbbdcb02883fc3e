package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskgraph/internal/errors"
	"github.com/yukikurage/taskgraph/internal/middleware"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type setAuthorRequest struct {
	Author string `json:"author"`
}

// SetAuthor remembers the author used for tasks created without one.
// An empty author forgets it.
func (h *SessionHandler) SetAuthor(c *gin.Context) {
	var req setAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if len([]rune(req.Author)) > models.MaxAuthorLength {
		apierrors.Respond(c, &services.ValidationError{
			Field:   "author",
			Message: fmt.Sprintf("must be at most %d characters", models.MaxAuthorLength),
		})
		return
	}

	if err := middleware.RememberAuthor(c, req.Author); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	author, _ := middleware.GetAuthor(c)
	c.JSON(http.StatusOK, gin.H{"author": author})
}
