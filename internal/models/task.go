package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusIcebox     TaskStatus = "icebox"
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusReady      TaskStatus = "ready"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusClosed     TaskStatus = "closed"
)

// Field limits enforced before any write.
const (
	MaxTitleLength  = 200
	MaxBodyLength   = 10000
	MaxAuthorLength = 100
)

// AllTaskStatuses lists every status in lifecycle order.
var AllTaskStatuses = []TaskStatus{
	TaskStatusIcebox,
	TaskStatusBacklog,
	TaskStatusReady,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
	TaskStatusClosed,
}

// HiddenByDefault are the statuses a listing skips unless asked for explicitly.
var HiddenByDefault = []TaskStatus{
	TaskStatusIcebox,
	TaskStatusDone,
	TaskStatusClosed,
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	for _, status := range AllTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Task struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Body      *string    `gorm:"type:text" json:"body"`
	Author    *string    `gorm:"type:varchar(100);index" json:"author"`
	Status    TaskStatus `gorm:"type:varchar(20);not null;default:'backlog';index" json:"status"`
	ParentID  *uint64    `gorm:"index" json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
