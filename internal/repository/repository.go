package repository

import (
	"github.com/yukikurage/taskgraph/internal/models"
)

// Store bundles the per-table repositories over one database handle.
// Inside Transaction every repository obtained from tx shares the transaction.
type Store interface {
	Tasks() TaskRepository
	Blocks() BlockRepository
	Tags() TagRepository
	Metadata() MetadataRepository

	// Transaction runs fn atomically; any error rolls back every write made through tx.
	Transaction(fn func(tx Store) error) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID; returns gorm.ErrRecordNotFound when missing
	FindByID(id uint64) (*models.Task, error)

	// FindByIDs returns the tasks with the given IDs, ordered by ID
	FindByIDs(ids []uint64) ([]models.Task, error)

	// Exists reports whether a task with the given ID exists
	Exists(id uint64) (bool, error)

	// CountExisting counts how many of the given IDs exist
	CountExisting(ids []uint64) (int64, error)

	// List retrieves tasks matching filter in ascending ID order
	List(filter TaskFilter) ([]models.Task, error)

	// FindChildren lists tasks whose parent is parentID, ordered by ID
	FindChildren(parentID uint64) ([]models.Task, error)

	// ParentOf returns the parent ID of a task (nil for roots)
	ParentOf(id uint64) (*uint64, error)

	// CountByStatus counts tasks grouped by status; statuses without tasks are absent
	CountByStatus() (map[models.TaskStatus]int64, error)

	// CountAll counts every persisted task
	CountAll() (int64, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// UpdateParent sets or clears the parent of a task
	UpdateParent(id uint64, parentID *uint64) error

	// DetachChildren turns every child of parentID into a root
	DetachChildren(parentID uint64) error

	// Delete removes a task row
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status          *models.TaskStatus
	ExcludeStatuses []models.TaskStatus
	Author          *string
	// TagIDs selects tasks carrying every listed tag.
	TagIDs   []uint64
	RootOnly bool
	Page     int
	PageSize int
}

// BlockRepository defines the interface for blocking edges
type BlockRepository interface {
	// Create inserts an edge
	Create(edge *models.TaskBlock) error

	// Exists reports whether the exact ordered edge exists
	Exists(blockerID, blockedID uint64) (bool, error)

	// Delete removes an edge and reports whether a row was removed
	Delete(blockerID, blockedID uint64) (bool, error)

	// FindBlockers lists tasks that block taskID, ordered by ID
	FindBlockers(taskID uint64) ([]models.Task, error)

	// FindBlocked lists tasks that taskID blocks, ordered by ID
	FindBlocked(taskID uint64) ([]models.Task, error)

	// All returns every edge
	All() ([]models.TaskBlock, error)

	// DeleteForTask removes every edge touching taskID
	DeleteForTask(taskID uint64) error
}

// TagRepository defines the interface for tags and task membership
type TagRepository interface {
	// FindByID finds a tag by ID
	FindByID(id uint64) (*models.Tag, error)

	// FindByName finds a tag by its exact name
	FindByName(name string) (*models.Tag, error)

	// FirstOrCreate returns the tag named name, creating it if needed
	FirstOrCreate(name string) (*models.Tag, error)

	// List returns all tags ordered by name
	List() ([]models.Tag, error)

	// AddToTask attaches a tag to a task; attaching twice is a no-op
	AddToTask(taskID, tagID uint64) error

	// RemoveFromTask detaches a tag and reports whether a row was removed
	RemoveFromTask(taskID, tagID uint64) (bool, error)

	// ForTask lists the tags of one task ordered by name
	ForTask(taskID uint64) ([]models.Tag, error)

	// AllByTask returns the tags of every tagged task in a single query
	AllByTask() (map[uint64][]models.Tag, error)

	// DeleteForTask removes every membership of taskID
	DeleteForTask(taskID uint64) error
}

// MetadataRepository defines the interface for per-task key/value entries
type MetadataRepository interface {
	// Upsert inserts the entry or overwrites the value of an existing key
	Upsert(entry *models.TaskMetadata) error

	// Delete removes one key and reports whether a row was removed
	Delete(taskID uint64, key string) (bool, error)

	// ForTask lists the entries of one task ordered by key
	ForTask(taskID uint64) ([]models.TaskMetadata, error)

	// AllByTask returns the entries of every task in a single query
	AllByTask() (map[uint64][]models.TaskMetadata, error)

	// DeleteForTask removes every entry of taskID
	DeleteForTask(taskID uint64) error
}
