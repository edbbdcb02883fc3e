package repository

import (
	"errors"

	"github.com/yukikurage/taskgraph/internal/database"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDs returns the tasks with the given IDs
func (r *GormTaskRepository) FindByIDs(ids []uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Exists reports whether a task exists
func (r *GormTaskRepository) Exists(id uint64) (bool, error) {
	count, err := r.CountExisting([]uint64{id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountExisting counts how many of the given IDs exist
func (r *GormTaskRepository) CountExisting(ids []uint64) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}

	err := r.db.Model(&models.Task{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// List retrieves tasks with filtering and optional pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("tasks.status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.Author != nil {
		query = query.Where("tasks.author = ?", *filter.Author)
	}
	if len(filter.TagIDs) > 0 {
		tagIDs := uniqueUint64(filter.TagIDs)
		tagSubQuery := r.db.Model(&models.TaskTag{}).
			Select("task_tags.task_id").
			Where("task_tags.tag_id IN ?", tagIDs).
			Group("task_tags.task_id").
			Having("COUNT(DISTINCT task_tags.tag_id) = ?", len(tagIDs))
		query = query.Where("tasks.id IN (?)", tagSubQuery)
	}
	if filter.RootOnly {
		query = query.Where("tasks.parent_id IS NULL")
	}

	query = query.Order("tasks.id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindChildren lists the direct children of a task
func (r *GormTaskRepository) FindChildren(parentID uint64) ([]models.Task, error) {
	children := []models.Task{}
	if err := r.db.Where("parent_id = ?", parentID).Order("id ASC").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// ParentOf returns the parent ID of a task
func (r *GormTaskRepository) ParentOf(id uint64) (*uint64, error) {
	var task models.Task
	if err := r.db.Select("id", "parent_id").First(&task, id).Error; err != nil {
		return nil, err
	}
	return task.ParentID, nil
}

type statusCount struct {
	Status models.TaskStatus
	Count  int64
}

// CountByStatus counts tasks grouped by status
func (r *GormTaskRepository) CountByStatus() (map[models.TaskStatus]int64, error) {
	var rows []statusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountAll counts every task
func (r *GormTaskRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateParent sets or clears the parent of a task
func (r *GormTaskRepository) UpdateParent(id uint64, parentID *uint64) error {
	return r.db.Model(&models.Task{ID: id}).Update("parent_id", parentID).Error
}

// DetachChildren promotes every child of parentID to a root
func (r *GormTaskRepository) DetachChildren(parentID uint64) error {
	return r.db.Model(&models.Task{}).
		Where("parent_id = ?", parentID).
		Update("parent_id", nil).Error
}

// Delete removes a task row
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means a row was missing
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
