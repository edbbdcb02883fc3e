package models

import "time"

const MaxMetadataKeyLength = 100

// TaskMetadata holds one value per (task, key); writes are upserts.
type TaskMetadata struct {
	TaskID    uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	Key       string    `gorm:"primarykey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (TaskMetadata) TableName() string {
	return "task_metadata"
}
