package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// MetadataService owns per-task key/value attributes
type MetadataService struct {
	store repository.Store
}

// NewMetadataService creates a new MetadataService
func NewMetadataService(store repository.Store) *MetadataService {
	return &MetadataService{store: store}
}

// SetMetadata stores value under key for a task, replacing any previous value
func (s *MetadataService) SetMetadata(taskID uint64, key, value string) error {
	key, err := validateMetadataKey(key)
	if err != nil {
		return err
	}

	if err := NewTaskService(s.store).ensureTaskExists(taskID, "setting metadata"); err != nil {
		return err
	}

	entry := &models.TaskMetadata{TaskID: taskID, Key: key, Value: value}
	if err := s.store.Metadata().Upsert(entry); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

// DeleteMetadata removes a key from a task and reports whether it was present
func (s *MetadataService) DeleteMetadata(taskID uint64, key string) (bool, error) {
	if err := NewTaskService(s.store).ensureTaskExists(taskID, "removing metadata"); err != nil {
		return false, err
	}

	removed, err := s.store.Metadata().Delete(taskID, strings.TrimSpace(key))
	if err != nil {
		return false, fmt.Errorf("failed to remove metadata: %w", err)
	}
	return removed, nil
}

// GetTaskMetadata lists the entries of one task ordered by key
func (s *MetadataService) GetTaskMetadata(taskID uint64) ([]models.TaskMetadata, error) {
	entries, err := s.store.Metadata().ForTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task metadata: %w", err)
	}
	return entries, nil
}

// GetAllTasksMetadata returns the entries of every task, fetched in one query
func (s *MetadataService) GetAllTasksMetadata() (map[uint64][]models.TaskMetadata, error) {
	byTask, err := s.store.Metadata().AllByTask()
	if err != nil {
		return nil, fmt.Errorf("failed to load task metadata: %w", err)
	}
	return byTask, nil
}

func validateMetadataKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	n := utf8.RuneCountInString(key)
	if n < 1 || n > models.MaxMetadataKeyLength {
		return "", &ValidationError{
			Field:   "metadata key",
			Message: fmt.Sprintf("must be between 1 and %d characters", models.MaxMetadataKeyLength),
		}
	}
	return key, nil
}
