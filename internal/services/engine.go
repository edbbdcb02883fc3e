package services

import "github.com/yukikurage/taskgraph/internal/repository"

// Engine groups the task services over one store. Build it once per CLI
// invocation or server process and pass it to every caller.
type Engine struct {
	store repository.Store

	Tasks     *TaskService
	Hierarchy *HierarchyService
	Blocks    *BlockService
	Tags      *TagService
	Metadata  *MetadataService
	Query     *QueryService
}

// NewEngine creates the services over store
func NewEngine(store repository.Store) *Engine {
	return &Engine{
		store:     store,
		Tasks:     NewTaskService(store),
		Hierarchy: NewHierarchyService(store),
		Blocks:    NewBlockService(store),
		Tags:      NewTagService(store),
		Metadata:  NewMetadataService(store),
		Query:     NewQueryService(store),
	}
}

// Transaction runs fn with an Engine bound to a single transaction. If fn
// returns an error nothing it wrote is kept.
func (e *Engine) Transaction(fn func(tx *Engine) error) error {
	return e.store.Transaction(func(tx repository.Store) error {
		return fn(NewEngine(tx))
	})
}
