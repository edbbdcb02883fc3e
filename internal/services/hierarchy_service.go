package services

import (
	"fmt"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// HierarchyService owns the parent/child forest over tasks
type HierarchyService struct {
	store repository.Store
}

// NewHierarchyService creates a new HierarchyService
func NewHierarchyService(store repository.Store) *HierarchyService {
	return &HierarchyService{store: store}
}

// SubtreeNode is one task with its materialized descendants
type SubtreeNode struct {
	Task     models.Task    `json:"task"`
	Children []*SubtreeNode `json:"children"`
}

// SetParent moves taskID under parentID, or makes it a root when parentID is nil.
func (s *HierarchyService) SetParent(taskID uint64, parentID *uint64) error {
	if parentID != nil && *parentID == taskID {
		return &CycleError{Graph: GraphHierarchy, TaskID: taskID, OtherID: taskID}
	}

	return s.store.Transaction(func(tx repository.Store) error {
		tasks := tx.Tasks()

		exists, err := tasks.Exists(taskID)
		if err != nil {
			return fmt.Errorf("failed to find task: %w", err)
		}
		if !exists {
			return taskNotFound(taskID, "setting parent")
		}

		if parentID != nil {
			exists, err := tasks.Exists(*parentID)
			if err != nil {
				return fmt.Errorf("failed to find parent task: %w", err)
			}
			if !exists {
				return taskNotFound(*parentID, "setting parent")
			}

			if err := checkAncestry(tasks, taskID, *parentID); err != nil {
				return err
			}
		}

		if err := tasks.UpdateParent(taskID, parentID); err != nil {
			return fmt.Errorf("failed to update parent: %w", err)
		}
		return nil
	})
}

// checkAncestry walks up from parentID and fails if taskID is among its
// ancestors. The walk is bounded by the task count so corrupted data cannot loop.
func checkAncestry(tasks repository.TaskRepository, taskID, parentID uint64) error {
	limit, err := tasks.CountAll()
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}

	current := parentID
	for steps := int64(0); steps <= limit; steps++ {
		if current == taskID {
			return &CycleError{Graph: GraphHierarchy, TaskID: taskID, OtherID: parentID}
		}

		next, err := tasks.ParentOf(current)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to read parent of task %d: %w", current, err)
		}
		if next == nil {
			return nil
		}
		current = *next
	}

	return fmt.Errorf("ancestor chain of task %d is longer than the task count; hierarchy is corrupted", parentID)
}

// GetChildren returns the direct children of a task
func (s *HierarchyService) GetChildren(id uint64) ([]models.Task, error) {
	return NewTaskService(s.store).GetChildTasks(id)
}

// MaterializeSubtree loads rootID and all of its descendants.
func (s *HierarchyService) MaterializeSubtree(rootID uint64) (*SubtreeNode, error) {
	tasks := s.store.Tasks()

	root, err := tasks.FindByID(rootID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, taskNotFound(rootID, "")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	maxDepth, err := tasks.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	visited := map[uint64]bool{}
	return s.materialize(*root, visited, 0, int(maxDepth))
}

func (s *HierarchyService) materialize(task models.Task, visited map[uint64]bool, depth, maxDepth int) (*SubtreeNode, error) {
	visited[task.ID] = true
	node := &SubtreeNode{Task: task, Children: []*SubtreeNode{}}

	if depth >= maxDepth {
		return node, nil
	}

	children, err := s.store.Tasks().FindChildren(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of task %d: %w", task.ID, err)
	}

	for _, child := range children {
		if visited[child.ID] {
			continue
		}
		childNode, err := s.materialize(child, visited, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}

	return node, nil
}
