package repository

import (
	"github.com/yukikurage/taskgraph/internal/models"
	"gorm.io/gorm"
)

// GormBlockRepository is a GORM implementation of BlockRepository
type GormBlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &GormBlockRepository{db: db}
}

// Create inserts an edge
func (r *GormBlockRepository) Create(edge *models.TaskBlock) error {
	return r.db.Create(edge).Error
}

// Exists reports whether the ordered edge exists
func (r *GormBlockRepository) Exists(blockerID, blockedID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.TaskBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes an edge
func (r *GormBlockRepository) Delete(blockerID, blockedID uint64) (bool, error) {
	result := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.TaskBlock{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindBlockers lists the tasks that block taskID
func (r *GormBlockRepository) FindBlockers(taskID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.Model(&models.Task{}).
		Joins("JOIN task_blocks ON task_blocks.blocker_id = tasks.id").
		Where("task_blocks.blocked_id = ?", taskID).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindBlocked lists the tasks blocked by taskID
func (r *GormBlockRepository) FindBlocked(taskID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.Model(&models.Task{}).
		Joins("JOIN task_blocks ON task_blocks.blocked_id = tasks.id").
		Where("task_blocks.blocker_id = ?", taskID).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// All returns every edge
func (r *GormBlockRepository) All() ([]models.TaskBlock, error) {
	edges := []models.TaskBlock{}
	if err := r.db.Order("blocker_id ASC, blocked_id ASC").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// DeleteForTask removes every edge touching taskID
func (r *GormBlockRepository) DeleteForTask(taskID uint64) error {
	return r.db.Where("blocker_id = ? OR blocked_id = ?", taskID, taskID).
		Delete(&models.TaskBlock{}).Error
}
