package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// TaskService owns task records and the status lifecycle
type TaskService struct {
	store repository.Store
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store) *TaskService {
	return &TaskService{store: store}
}

// MetadataInput is one key/value pair supplied at creation time
type MetadataInput struct {
	Key   string
	Value string
}

// CreateTaskInput represents input for creating a task together with its relationships
type CreateTaskInput struct {
	Title    string
	Body     *string
	Author   *string
	Status   models.TaskStatus
	ParentID *uint64

	// BlockedBy lists tasks that must resolve before the new one.
	BlockedBy []uint64
	// Blocks lists tasks the new one blocks.
	Blocks   []uint64
	Tags     []string
	Metadata []MetadataInput
}

// UpdateTaskInput represents input for updating a task. An empty Body or
// Author clears the field.
type UpdateTaskInput struct {
	Title  *string
	Body   *string
	Author *string
	Status *models.TaskStatus
}

// CreateTask validates input and then creates the task, its parent link,
// blocking edges, tags and metadata in one transaction.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	body, err := validateBody(input.Body)
	if err != nil {
		return nil, err
	}
	author, err := validateAuthor(input.Author)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusBacklog
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	for _, name := range input.Tags {
		if _, err := validateTagName(name); err != nil {
			return nil, err
		}
	}
	for _, entry := range input.Metadata {
		if _, err := validateMetadataKey(entry.Key); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:    title,
		Body:     body,
		Author:   author,
		Status:   status,
		ParentID: input.ParentID,
	}

	err = s.store.Transaction(func(tx repository.Store) error {
		if input.ParentID != nil {
			exists, err := tx.Tasks().Exists(*input.ParentID)
			if err != nil {
				return fmt.Errorf("failed to check parent task: %w", err)
			}
			if !exists {
				return taskNotFound(*input.ParentID, "setting parent")
			}
		}

		if err := tx.Tasks().Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		blocks := NewBlockService(tx)
		for _, blockerID := range input.BlockedBy {
			if err := blocks.AddBlockedBy(task.ID, blockerID); err != nil {
				return err
			}
		}
		for _, blockedID := range input.Blocks {
			if err := blocks.AddBlocks(task.ID, blockedID); err != nil {
				return err
			}
		}

		tags := NewTagService(tx)
		for _, name := range input.Tags {
			tag, err := tags.GetOrCreateTag(name)
			if err != nil {
				return err
			}
			if err := tags.TagTask(task.ID, tag.ID); err != nil {
				return err
			}
		}

		metadata := NewMetadataService(tx)
		for _, entry := range input.Metadata {
			if err := metadata.SetMetadata(task.ID, entry.Key, entry.Value); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, taskNotFound(id, "")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching filter in creation order. An empty filter returns every task.
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, error) {
	if filter.Status != nil {
		if err := validateStatus(*filter.Status); err != nil {
			return nil, err
		}
	}

	tasks, err := s.store.Tasks().List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetChildTasks returns the direct children of a task in ascending ID order
func (s *TaskService) GetChildTasks(id uint64) ([]models.Task, error) {
	if err := s.ensureTaskExists(id, ""); err != nil {
		return nil, err
	}

	children, err := s.store.Tasks().FindChildren(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list child tasks: %w", err)
	}
	return children, nil
}

// GetTaskCountByStatus returns a count for every status, including zeros
func (s *TaskService) GetTaskCountByStatus() (map[models.TaskStatus]int64, error) {
	counts, err := s.store.Tasks().CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	result := make(map[models.TaskStatus]int64, len(models.AllTaskStatuses))
	for _, status := range models.AllTaskStatuses {
		result[status] = counts[status]
	}
	return result, nil
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(id uint64, input UpdateTaskInput) (*models.Task, error) {
	var (
		title  string
		body   *string
		author *string
		err    error
	)
	if input.Title != nil {
		if title, err = validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Body != nil {
		if body, err = validateBody(input.Body); err != nil {
			return nil, err
		}
	}
	if input.Author != nil {
		if author, err = validateAuthor(input.Author); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if err := validateStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = title
	}
	if input.Body != nil {
		task.Body = body
	}
	if input.Author != nil {
		task.Author = author
	}
	if input.Status != nil {
		task.Status = *input.Status
	}

	if err := s.store.Tasks().Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task with its edges, tags and metadata. Its children become roots.
func (s *TaskService) DeleteTask(id uint64) error {
	return s.store.Transaction(func(tx repository.Store) error {
		exists, err := tx.Tasks().Exists(id)
		if err != nil {
			return fmt.Errorf("failed to find task: %w", err)
		}
		if !exists {
			return taskNotFound(id, "deleting task")
		}

		if err := tx.Blocks().DeleteForTask(id); err != nil {
			return fmt.Errorf("failed to delete blocking relationships: %w", err)
		}
		if err := tx.Tags().DeleteForTask(id); err != nil {
			return fmt.Errorf("failed to delete task tags: %w", err)
		}
		if err := tx.Metadata().DeleteForTask(id); err != nil {
			return fmt.Errorf("failed to delete task metadata: %w", err)
		}
		if err := tx.Tasks().DetachChildren(id); err != nil {
			return fmt.Errorf("failed to detach child tasks: %w", err)
		}
		if err := tx.Tasks().Delete(id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

func (s *TaskService) ensureTaskExists(id uint64, op string) error {
	exists, err := s.store.Tasks().Exists(id)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if !exists {
		return taskNotFound(id, op)
	}
	return nil
}

// validateTitle checks the length of the title as given, then trims it.
// A title of only whitespace is rejected.
func validateTitle(title string) (string, error) {
	n := utf8.RuneCountInString(title)
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || n > models.MaxTitleLength {
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be between 1 and %d characters (got %d)", models.MaxTitleLength, n),
		}
	}
	return trimmed, nil
}

func validateBody(body *string) (*string, error) {
	if body == nil || *body == "" {
		return nil, nil
	}
	if n := utf8.RuneCountInString(*body); n > models.MaxBodyLength {
		return nil, &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("must be at most %d characters (got %d)", models.MaxBodyLength, n),
		}
	}
	return body, nil
}

func validateAuthor(author *string) (*string, error) {
	if author == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*author)
	if trimmed == "" {
		return nil, nil
	}
	if n := utf8.RuneCountInString(trimmed); n > models.MaxAuthorLength {
		return nil, &ValidationError{
			Field:   "author",
			Message: fmt.Sprintf("must be at most %d characters (got %d)", models.MaxAuthorLength, n),
		}
	}
	return &trimmed, nil
}

func validateStatus(status models.TaskStatus) error {
	if status.IsValid() {
		return nil
	}

	names := make([]string, len(models.AllTaskStatuses))
	for i, s := range models.AllTaskStatuses {
		names[i] = string(s)
	}
	return &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("%q is not one of %s", status, strings.Join(names, ", ")),
	}
}
