package dto

import "github.com/yukikurage/taskgraph/internal/models"

// View modes of a task listing
const (
	ViewModeFlat = "flat"
	ViewModeTree = "tree"
)

// ListFiltersDTO echoes the filters a listing was produced with
type ListFiltersDTO struct {
	Status   *models.TaskStatus `json:"status"`
	Author   *string            `json:"author"`
	TagIDs   []uint64           `json:"tagIds"`
	RootOnly bool               `json:"rootOnly"`
	All      bool               `json:"all"`
}

// ListResponse is the envelope of a task listing. Tasks holds []TaskView in
// flat mode and []TreeNode in tree mode.
type ListResponse struct {
	Status     string         `json:"status"`
	Count      int            `json:"count"`
	TotalCount int64          `json:"totalCount"`
	Filters    ListFiltersDTO `json:"filters"`
	Tasks      interface{}    `json:"tasks"`
	ViewMode   string         `json:"viewMode"`
}

// StatusCountsResponse is the envelope of per-status counts
type StatusCountsResponse struct {
	Status     string                      `json:"status"`
	Counts     map[models.TaskStatus]int64 `json:"counts"`
	TotalCount int64                       `json:"totalCount"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorEnvelope is returned for every failed operation
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// NewErrorEnvelope wraps a failure
func NewErrorEnvelope(code, message string, details interface{}) ErrorEnvelope {
	return ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
