package repository

import (
	"github.com/yukikurage/taskgraph/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByName finds a tag by name
func (r *GormTagRepository) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FirstOrCreate returns the named tag, creating it when absent
func (r *GormTagRepository) FirstOrCreate(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List returns all tags
func (r *GormTagRepository) List() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// AddToTask attaches a tag to a task
func (r *GormTagRepository) AddToTask(taskID, tagID uint64) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TaskTag{TaskID: taskID, TagID: tagID}).Error
}

// RemoveFromTask detaches a tag from a task
func (r *GormTagRepository) RemoveFromTask(taskID, tagID uint64) (bool, error) {
	result := r.db.Where("task_id = ? AND tag_id = ?", taskID, tagID).Delete(&models.TaskTag{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ForTask lists the tags attached to a task
func (r *GormTagRepository) ForTask(taskID uint64) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.Model(&models.Tag{}).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

type taskTagRow struct {
	TaskID uint64
	TagID  uint64
	Name   string
}

// AllByTask loads every membership with its tag in one query
func (r *GormTagRepository) AllByTask() (map[uint64][]models.Tag, error) {
	var rows []taskTagRow
	err := r.db.Table("task_tags").
		Select("task_tags.task_id, tags.id AS tag_id, tags.name").
		Joins("JOIN tags ON tags.id = task_tags.tag_id").
		Order("task_tags.task_id ASC, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byTask := make(map[uint64][]models.Tag)
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], models.Tag{ID: row.TagID, Name: row.Name})
	}
	return byTask, nil
}

// DeleteForTask removes every tag membership of a task
func (r *GormTagRepository) DeleteForTask(taskID uint64) error {
	return r.db.Where("task_id = ?", taskID).Delete(&models.TaskTag{}).Error
}
