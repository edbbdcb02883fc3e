package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskgraph/internal/dto"
	apierrors "github.com/yukikurage/taskgraph/internal/errors"
	"github.com/yukikurage/taskgraph/internal/services"
)

type addBlockerRequest struct {
	BlockerID uint64 `json:"blocker_id" binding:"required"`
}

// AddBlocker records that the task is blocked by another task
func (h *TaskHandler) AddBlocker(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	var req addBlockerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.engine.Blocks.AddBlockedBy(task.ID, req.BlockerID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	blockers, err := h.engine.Blocks.GetBlockers(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"blockers": blockers,
		"count":    len(blockers),
	})
}

// RemoveBlocker deletes a blocking edge. Removing a missing edge succeeds.
func (h *TaskHandler) RemoveBlocker(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	blockerID, err := services.ParseTaskID(c.Param("blocker_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	removed, err := h.engine.Blocks.RemoveBlock(blockerID, task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListBlockers returns the tasks blocking the task
func (h *TaskHandler) ListBlockers(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	blockers, err := h.engine.Blocks.GetBlockers(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.respondWithViews(c, "blockers", blockers)
}

// ListBlocked returns the tasks the task blocks
func (h *TaskHandler) ListBlocked(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	blocked, err := h.engine.Blocks.GetBlocked(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.respondWithViews(c, "blocked", blocked)
}

type addTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// AddTag attaches a tag to the task, creating the tag if no tag has that name
func (h *TaskHandler) AddTag(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	var req addTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	err := h.engine.Transaction(func(tx *services.Engine) error {
		tag, err := tx.Tags.GetOrCreateTag(req.Tag)
		if err != nil {
			return err
		}
		return tx.Tags.TagTask(task.ID, tag.ID)
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK, task)
}

// RemoveTag detaches a tag, given by ID or name, from the task
func (h *TaskHandler) RemoveTag(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	tag, err := h.engine.Tags.ResolveTag(c.Param("tag"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	removed, err := h.engine.Tags.UntagTask(task.ID, tag.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

type setMetadataRequest struct {
	Value string `json:"value"`
}

// SetMetadata stores a value under :key, replacing any previous value
func (h *TaskHandler) SetMetadata(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	var req setMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.engine.Metadata.SetMetadata(task.ID, c.Param("key"), req.Value); err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK, task)
}

// DeleteMetadata removes :key from the task
func (h *TaskHandler) DeleteMetadata(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	removed, err := h.engine.Metadata.DeleteMetadata(task.ID, c.Param("key"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListTags returns every tag
func (h *TaskHandler) ListTags(c *gin.Context) {
	tags, err := h.engine.Tags.ListTags()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  dto.ToTagDTOs(tags),
		"count": len(tags),
	})
}

// Stats returns the number of tasks in every status
func (h *TaskHandler) Stats(c *gin.Context) {
	counts, err := h.engine.Tasks.GetTaskCountByStatus()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	total, err := h.engine.Query.TotalCount()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusCountsResponse{
		Status:     "success",
		Counts:     counts,
		TotalCount: total,
	})
}
