package services

import (
	"fmt"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

const (
	opAddBlockedBy = "adding blocked-by relationship"
	opAddBlocks    = "adding blocks relationship"
)

// BlockService owns the directed "blocks" edges between tasks. The edge set
// is kept acyclic.
type BlockService struct {
	store repository.Store
}

// NewBlockService creates a new BlockService
func NewBlockService(store repository.Store) *BlockService {
	return &BlockService{store: store}
}

// AddBlock records that blockerID must resolve before blockedID
func (s *BlockService) AddBlock(blockerID, blockedID uint64) error {
	return s.addBlock(blockerID, blockedID, opAddBlocks)
}

// AddBlockedBy records that taskID is blocked by otherID
func (s *BlockService) AddBlockedBy(taskID, otherID uint64) error {
	return s.addBlock(otherID, taskID, opAddBlockedBy)
}

// AddBlocks records that taskID blocks otherID
func (s *BlockService) AddBlocks(taskID, otherID uint64) error {
	return s.addBlock(taskID, otherID, opAddBlocks)
}

func (s *BlockService) addBlock(blockerID, blockedID uint64, op string) error {
	if blockerID == blockedID {
		return &SelfEdgeError{TaskID: blockerID}
	}

	return s.store.Transaction(func(tx repository.Store) error {
		for _, id := range []uint64{blockerID, blockedID} {
			exists, err := tx.Tasks().Exists(id)
			if err != nil {
				return fmt.Errorf("failed to check task %d: %w", id, err)
			}
			if !exists {
				return taskNotFound(id, op)
			}
		}

		blocks := tx.Blocks()

		exists, err := blocks.Exists(blockerID, blockedID)
		if err != nil {
			return fmt.Errorf("failed to check relationship: %w", err)
		}
		if exists {
			return &DuplicateEdgeError{BlockerID: blockerID, BlockedID: blockedID}
		}

		edges, err := blocks.All()
		if err != nil {
			return fmt.Errorf("failed to load relationships: %w", err)
		}
		if reaches(edges, blockedID, blockerID) {
			return &CycleError{Graph: GraphBlocks, TaskID: blockerID, OtherID: blockedID}
		}

		if err := blocks.Create(&models.TaskBlock{BlockerID: blockerID, BlockedID: blockedID}); err != nil {
			return fmt.Errorf("failed to add relationship: %w", err)
		}
		return nil
	})
}

// reaches reports whether to is reachable from from by following blocker->blocked edges.
func reaches(edges []models.TaskBlock, from, to uint64) bool {
	next := make(map[uint64][]uint64, len(edges))
	for _, e := range edges {
		next[e.BlockerID] = append(next[e.BlockerID], e.BlockedID)
	}

	visited := map[uint64]bool{from: true}
	queue := []uint64{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			return true
		}
		for _, n := range next[current] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

// RemoveBlock deletes an edge. Removing a missing edge is not an error.
func (s *BlockService) RemoveBlock(blockerID, blockedID uint64) (bool, error) {
	removed, err := s.store.Blocks().Delete(blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to remove relationship: %w", err)
	}
	return removed, nil
}

// GetBlockers lists the tasks blocking taskID
func (s *BlockService) GetBlockers(taskID uint64) ([]models.Task, error) {
	if err := NewTaskService(s.store).ensureTaskExists(taskID, ""); err != nil {
		return nil, err
	}

	tasks, err := s.store.Blocks().FindBlockers(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blockers: %w", err)
	}
	return tasks, nil
}

// GetBlocked lists the tasks blocked by taskID
func (s *BlockService) GetBlocked(taskID uint64) ([]models.Task, error) {
	if err := NewTaskService(s.store).ensureTaskExists(taskID, ""); err != nil {
		return nil, err
	}

	tasks, err := s.store.Blocks().FindBlocked(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked tasks: %w", err)
	}
	return tasks, nil
}
