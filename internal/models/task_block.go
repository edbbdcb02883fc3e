package models

import "time"

// TaskBlock is a directed edge: BlockerID must resolve before BlockedID.
type TaskBlock struct {
	BlockerID uint64    `gorm:"primarykey;autoIncrement:false" json:"blocker_id"`
	BlockedID uint64    `gorm:"primarykey;autoIncrement:false;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (TaskBlock) TableName() string {
	return "task_blocks"
}
