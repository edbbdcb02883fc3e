package dto

import (
	"time"

	"github.com/yukikurage/taskgraph/internal/models"
)

// TagDTO represents a tag attached to a task
type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MetadataDTO represents one key/value entry of a task
type MetadataDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParentSummaryDTO is the short form of a parent task shown in flat listings
type ParentSummaryDTO struct {
	ID     uint64            `json:"id"`
	Title  string            `json:"title"`
	Status models.TaskStatus `json:"status"`
}

// TaskDTO represents a task with its tags and metadata
type TaskDTO struct {
	ID        uint64            `json:"id"`
	Title     string            `json:"title"`
	Body      *string           `json:"body"`
	Author    *string           `json:"author"`
	Status    models.TaskStatus `json:"status"`
	ParentID  *uint64           `json:"parent_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Tags      []TagDTO          `json:"tags"`
	Metadata  []MetadataDTO     `json:"metadata"`
}

// TaskView is a task in a flat listing
type TaskView struct {
	TaskDTO
	Parent *ParentSummaryDTO `json:"parent"`
}

// TreeNode is a task in a tree listing
type TreeNode struct {
	TaskDTO
	Children []TreeNode `json:"children"`
}

// ToTaskDTO converts a task and its attachments to TaskDTO
func ToTaskDTO(task models.Task, tags []models.Tag, metadata []models.TaskMetadata) TaskDTO {
	dto := TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Body:      task.Body,
		Author:    task.Author,
		Status:    task.Status,
		ParentID:  task.ParentID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
		Tags:      make([]TagDTO, len(tags)),
		Metadata:  make([]MetadataDTO, len(metadata)),
	}

	for i, tag := range tags {
		dto.Tags[i] = TagDTO{ID: tag.ID, Name: tag.Name}
	}
	for i, entry := range metadata {
		dto.Metadata[i] = MetadataDTO{Key: entry.Key, Value: entry.Value}
	}

	return dto
}

// ToParentSummaryDTO converts a parent task to its summary
func ToParentSummaryDTO(task models.Task) *ParentSummaryDTO {
	return &ParentSummaryDTO{
		ID:     task.ID,
		Title:  task.Title,
		Status: task.Status,
	}
}

// ToTagDTOs converts tags for responses
func ToTagDTOs(tags []models.Tag) []TagDTO {
	items := make([]TagDTO, len(tags))
	for i, tag := range tags {
		items[i] = TagDTO{ID: tag.ID, Name: tag.Name}
	}
	return items
}
