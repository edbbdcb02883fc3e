package repository

import (
	"strings"

	"github.com/yukikurage/taskgraph/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMetadataRepository is a GORM implementation of MetadataRepository
type GormMetadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository creates a new MetadataRepository
func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &GormMetadataRepository{db: db}
}

// Upsert writes a value, replacing the previous value of the same key
func (r *GormMetadataRepository) Upsert(entry *models.TaskMetadata) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(entry).Error
}

// Delete removes one key from a task
func (r *GormMetadataRepository) Delete(taskID uint64, key string) (bool, error) {
	result := r.db.Where("task_id = ? AND "+quotedKey(r.db)+" = ?", taskID, key).
		Delete(&models.TaskMetadata{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ForTask lists the entries of a task
func (r *GormMetadataRepository) ForTask(taskID uint64) ([]models.TaskMetadata, error) {
	entries := []models.TaskMetadata{}
	err := r.db.Where("task_id = ?", taskID).
		Order(quotedKey(r.db) + " ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AllByTask loads the entries of every task in one query
func (r *GormMetadataRepository) AllByTask() (map[uint64][]models.TaskMetadata, error) {
	var entries []models.TaskMetadata
	err := r.db.Order("task_id ASC, " + quotedKey(r.db) + " ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	byTask := make(map[uint64][]models.TaskMetadata)
	for _, entry := range entries {
		byTask[entry.TaskID] = append(byTask[entry.TaskID], entry)
	}
	return byTask, nil
}

// DeleteForTask removes every entry of a task
func (r *GormMetadataRepository) DeleteForTask(taskID uint64) error {
	return r.db.Where("task_id = ?", taskID).Delete(&models.TaskMetadata{}).Error
}

// quotedKey quotes the "key" column, which is reserved in MySQL.
func quotedKey(db *gorm.DB) string {
	var b strings.Builder
	db.Dialector.QuoteTo(&b, "key")
	return b.String()
}
