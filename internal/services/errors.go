package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds. Every typed error below matches exactly one of these via errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrCycle         = errors.New("cycle detected")
	ErrSelfEdge      = errors.New("task cannot block itself")
	ErrDuplicateEdge = errors.New("relationship already exists")
	ErrConflict      = errors.New("conflict")
)

// ValidationError reports an input rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
	// Op names the operation that needed the entity, if any.
	Op string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %s not found", e.Entity, e.ID)
	if e.Op != "" {
		return fmt.Sprintf("Error %s: %s", e.Op, msg)
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Graph names used by CycleError.
const (
	GraphHierarchy = "hierarchy"
	GraphBlocks    = "blocks"
)

// CycleError reports a mutation that would close a cycle.
type CycleError struct {
	Graph   string
	TaskID  uint64
	OtherID uint64
}

func (e *CycleError) Error() string {
	if e.Graph == GraphBlocks {
		return fmt.Sprintf("cannot make task %d block task %d: would create a dependency cycle", e.TaskID, e.OtherID)
	}
	if e.TaskID == e.OtherID {
		return fmt.Sprintf("task %d cannot be its own parent", e.TaskID)
	}
	return fmt.Sprintf("cannot set parent of task %d to %d: would create a cycle", e.TaskID, e.OtherID)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// SelfEdgeError reports a blocking edge from a task to itself.
type SelfEdgeError struct {
	TaskID uint64
}

func (e *SelfEdgeError) Error() string {
	return fmt.Sprintf("task %d cannot block itself", e.TaskID)
}

func (e *SelfEdgeError) Is(target error) bool {
	return target == ErrSelfEdge
}

// DuplicateEdgeError reports an ordered blocking edge that already exists.
type DuplicateEdgeError struct {
	BlockerID uint64
	BlockedID uint64
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("task %d already blocks task %d", e.BlockerID, e.BlockedID)
}

func (e *DuplicateEdgeError) Is(target error) bool {
	return target == ErrDuplicateEdge
}

// ConflictError reports a unique-constraint violation other than a duplicate edge.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func taskNotFound(id uint64, op string) *NotFoundError {
	return &NotFoundError{Entity: "task", ID: strconv.FormatUint(id, 10), Op: op}
}

// ParseTaskID parses a task ID given as text.
func ParseTaskID(raw string) (uint64, error) {
	return parseID("task id", raw)
}

// ParseTaskIDs parses a comma separated list of task IDs.
func ParseTaskIDs(raw string) ([]uint64, error) {
	var ids []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ParseTaskID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(field, raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a positive integer", raw)}
	}
	return id, nil
}
