package models

import "time"

const MaxTagNameLength = 100

type Tag struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

type TaskTag struct {
	TaskID    uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	TagID     uint64    `gorm:"primarykey;autoIncrement:false;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (TaskTag) TableName() string {
	return "task_tags"
}
