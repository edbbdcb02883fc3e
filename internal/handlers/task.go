package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskgraph/internal/dto"
	apierrors "github.com/yukikurage/taskgraph/internal/errors"
	"github.com/yukikurage/taskgraph/internal/middleware"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
	"github.com/yukikurage/taskgraph/internal/utils"
)

type TaskHandler struct {
	engine    *services.Engine
	breakdown *services.BreakdownService
}

func NewTaskHandler(engine *services.Engine, breakdown *services.BreakdownService) *TaskHandler {
	return &TaskHandler{
		engine:    engine,
		breakdown: breakdown,
	}
}

// loadedTask returns the task set by the LoadTask middleware
func loadedTask(c *gin.Context) (models.Task, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
	}
	return task, ok
}

// ListTasks returns tasks matching the query filters, flat or as a tree
// Query: status, author, tag (repeatable, all must match), root, all, view=tree, page, page_size
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter := services.ListFilter{
		RootOnly:   queryBool(c, "root"),
		IncludeAll: queryBool(c, "all"),
	}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		filter.Status = &s
	}
	if author := c.Query("author"); author != "" {
		filter.Author = &author
	}

	if refs := queryList(c, "tag"); len(refs) > 0 {
		tagIDs, err := h.engine.Tags.ResolveTagIDs(refs)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		filter.TagIDs = tagIDs
	}

	if params, ok := utils.GetPaginationParams(c); ok {
		filter.Page = params.Page
		filter.PageSize = params.Limit
	}

	viewMode := dto.ViewModeFlat
	if c.Query("view") == dto.ViewModeTree {
		viewMode = dto.ViewModeTree
	}

	response, err := h.engine.Query.Listing(filter, viewMode)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTask returns a task with its parent, tags and metadata
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	h.respondWithView(c, http.StatusOK, task)
}

type createTaskRequest struct {
	Title     string            `json:"title" binding:"required"`
	Body      *string           `json:"body"`
	Author    *string           `json:"author"`
	Status    models.TaskStatus `json:"status"`
	ParentID  *uint64           `json:"parent_id"`
	BlockedBy []uint64          `json:"blocked_by"`
	Blocks    []uint64          `json:"blocks"`
	Tags      []string          `json:"tags"`
	Metadata  map[string]string `json:"metadata"`
}

// CreateTask creates a task together with its relationships in one transaction
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	author := req.Author
	if author == nil {
		if remembered, ok := middleware.GetAuthor(c); ok {
			author = &remembered
		}
	}

	input := services.CreateTaskInput{
		Title:     req.Title,
		Body:      req.Body,
		Author:    author,
		Status:    req.Status,
		ParentID:  req.ParentID,
		BlockedBy: req.BlockedBy,
		Blocks:    req.Blocks,
		Tags:      req.Tags,
		Metadata:  metadataInputs(req.Metadata),
	}

	task, err := h.engine.Tasks.CreateTask(input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithView(c, http.StatusCreated, *task)
}

type updateTaskRequest struct {
	Title  *string            `json:"title"`
	Body   *string            `json:"body"`
	Author *string            `json:"author"`
	Status *models.TaskStatus `json:"status"`
}

// UpdateTask updates the fields present in the request body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	updated, err := h.engine.Tasks.UpdateTask(task.ID, services.UpdateTaskInput{
		Title:  req.Title,
		Body:   req.Body,
		Author: req.Author,
		Status: req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK, *updated)
}

// DeleteTask deletes a task; its children become roots
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	if err := h.engine.Tasks.DeleteTask(task.ID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GetChildren returns the direct children of a task
func (h *TaskHandler) GetChildren(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	children, err := h.engine.Hierarchy.GetChildren(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithViews(c, "children", children)
}

// GetSubtree returns a task with all of its descendants
func (h *TaskHandler) GetSubtree(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	subtree, err := h.engine.Hierarchy.MaterializeSubtree(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, subtree)
}

type setParentRequest struct {
	ParentID *uint64 `json:"parent_id"`
}

// SetParent moves a task under another task, or to the root when parent_id is null
func (h *TaskHandler) SetParent(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	var req setParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.engine.Hierarchy.SetParent(task.ID, req.ParentID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	updated, err := h.engine.Tasks.GetTask(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, *updated)
}

// Breakdown asks the AI service for subtasks and creates them as children
func (h *TaskHandler) Breakdown(c *gin.Context) {
	task, ok := loadedTask(c)
	if !ok {
		return
	}

	if h.breakdown == nil {
		apierrors.Respond(c, services.ErrAIServiceNotConfigured)
		return
	}

	created, err := h.breakdown.Breakdown(c.Request.Context(), task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.respondWithViews(c, "tasks", created)
}

func (h *TaskHandler) respondWithView(c *gin.Context, status int, task models.Task) {
	views, err := h.engine.Query.Hydrate([]models.Task{task})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(status, views[0])
}

func (h *TaskHandler) respondWithViews(c *gin.Context, key string, tasks []models.Task) {
	views, err := h.engine.Query.Hydrate(tasks)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		key:     views,
		"count": len(views),
	})
}

func metadataInputs(values map[string]string) []services.MetadataInput {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inputs := make([]services.MetadataInput, 0, len(keys))
	for _, key := range keys {
		inputs = append(inputs, services.MetadataInput{Key: key, Value: values[key]})
	}
	return inputs
}

func queryBool(c *gin.Context, key string) bool {
	value, _ := strconv.ParseBool(c.Query(key))
	return value
}

// queryList accepts both ?tag=a&tag=b and ?tag=a,b
func queryList(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
