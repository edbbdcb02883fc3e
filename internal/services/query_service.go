package services

import (
	"fmt"

	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// QueryService composes filtered listings and hydrated views. Hydration
// fetches tags, metadata and parents once per call, never once per task.
type QueryService struct {
	store repository.Store
}

// NewQueryService creates a new QueryService
func NewQueryService(store repository.Store) *QueryService {
	return &QueryService{store: store}
}

// ListFilter represents filters for listing tasks
type ListFilter struct {
	Status *models.TaskStatus
	Author *string
	// TagIDs selects tasks carrying all of the listed tags.
	TagIDs   []uint64
	RootOnly bool
	// IncludeAll disables the default hiding of icebox, done and closed tasks.
	IncludeAll bool
	Page       int
	PageSize   int
}

// Validate checks the filter before it reaches storage
func (f ListFilter) Validate() error {
	if f.Status != nil {
		if err := validateStatus(*f.Status); err != nil {
			return err
		}
	}
	if f.Page < 0 || f.PageSize < 0 {
		return &ValidationError{Field: "page", Message: "must not be negative"}
	}
	return nil
}

// List returns the tasks matching filter in ascending ID order
func (s *QueryService) List(filter ListFilter) ([]models.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	taskFilter := repository.TaskFilter{
		Status:   filter.Status,
		Author:   filter.Author,
		TagIDs:   filter.TagIDs,
		RootOnly: filter.RootOnly,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status == nil && !filter.IncludeAll {
		taskFilter.ExcludeStatuses = models.HiddenByDefault
	}

	return NewTaskService(s.store).ListTasks(taskFilter)
}

// TotalCount counts every persisted task regardless of filters
func (s *QueryService) TotalCount() (int64, error) {
	count, err := s.store.Tasks().CountAll()
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Listing runs filter and packs the result into the listing envelope,
// hydrated in flat mode or nested in tree mode. Count is the number of
// tasks returned, including nested ones.
func (s *QueryService) Listing(filter ListFilter, viewMode string) (*dto.ListResponse, error) {
	tasks, err := s.List(filter)
	if err != nil {
		return nil, err
	}

	total, err := s.TotalCount()
	if err != nil {
		return nil, err
	}

	response := &dto.ListResponse{
		Status:     "success",
		TotalCount: total,
		Filters: dto.ListFiltersDTO{
			Status:   filter.Status,
			Author:   filter.Author,
			TagIDs:   filter.TagIDs,
			RootOnly: filter.RootOnly,
			All:      filter.IncludeAll,
		},
		ViewMode: dto.ViewModeFlat,
	}
	if response.Filters.TagIDs == nil {
		response.Filters.TagIDs = []uint64{}
	}

	if viewMode == dto.ViewModeTree {
		nodes, err := s.BuildTree(tasks)
		if err != nil {
			return nil, err
		}
		response.Tasks = nodes
		response.Count = countNodes(nodes)
		response.ViewMode = dto.ViewModeTree
		return response, nil
	}

	views, err := s.Hydrate(tasks)
	if err != nil {
		return nil, err
	}
	response.Tasks = views
	response.Count = len(views)
	return response, nil
}

// Hydrate joins each task with its parent summary, tags and metadata
func (s *QueryService) Hydrate(tasks []models.Task) ([]dto.TaskView, error) {
	views := make([]dto.TaskView, 0, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	tagsByTask, metadataByTask, err := s.loadAttachments()
	if err != nil {
		return nil, err
	}

	parents, err := s.loadParents(tasks)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		view := dto.TaskView{
			TaskDTO: dto.ToTaskDTO(task, tagsByTask[task.ID], metadataByTask[task.ID]),
		}
		if task.ParentID != nil {
			if parent, ok := parents[*task.ParentID]; ok {
				view.Parent = dto.ToParentSummaryDTO(parent)
			}
		}
		views = append(views, view)
	}

	return views, nil
}

// BuildTree nests tasks under their parents. Roots are the tasks without a
// parent; children are drawn only from tasks, so a task whose parent was
// filtered out does not appear.
func (s *QueryService) BuildTree(tasks []models.Task) ([]dto.TreeNode, error) {
	nodes := []dto.TreeNode{}
	if len(tasks) == 0 {
		return nodes, nil
	}

	tagsByTask, metadataByTask, err := s.loadAttachments()
	if err != nil {
		return nil, err
	}

	childrenOf := make(map[uint64][]models.Task)
	var roots []models.Task
	for _, task := range tasks {
		if task.ParentID == nil {
			roots = append(roots, task)
			continue
		}
		childrenOf[*task.ParentID] = append(childrenOf[*task.ParentID], task)
	}

	visited := make(map[uint64]bool, len(tasks))
	var build func(task models.Task) dto.TreeNode
	build = func(task models.Task) dto.TreeNode {
		visited[task.ID] = true
		node := dto.TreeNode{
			TaskDTO:  dto.ToTaskDTO(task, tagsByTask[task.ID], metadataByTask[task.ID]),
			Children: []dto.TreeNode{},
		}
		for _, child := range childrenOf[task.ID] {
			if visited[child.ID] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	for _, root := range roots {
		nodes = append(nodes, build(root))
	}
	return nodes, nil
}

// countNodes counts every task in a forest, not only its roots
func countNodes(nodes []dto.TreeNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}

func (s *QueryService) loadAttachments() (map[uint64][]models.Tag, map[uint64][]models.TaskMetadata, error) {
	tagsByTask, err := NewTagService(s.store).GetAllTaskTags()
	if err != nil {
		return nil, nil, err
	}

	metadataByTask, err := NewMetadataService(s.store).GetAllTasksMetadata()
	if err != nil {
		return nil, nil, err
	}

	return tagsByTask, metadataByTask, nil
}

func (s *QueryService) loadParents(tasks []models.Task) (map[uint64]models.Task, error) {
	known := make(map[uint64]models.Task, len(tasks))
	for _, task := range tasks {
		known[task.ID] = task
	}

	parents := make(map[uint64]models.Task)
	var missing []uint64
	seen := make(map[uint64]bool)
	for _, task := range tasks {
		if task.ParentID == nil || seen[*task.ParentID] {
			continue
		}
		seen[*task.ParentID] = true
		if parent, ok := known[*task.ParentID]; ok {
			parents[parent.ID] = parent
		} else {
			missing = append(missing, *task.ParentID)
		}
	}

	if len(missing) > 0 {
		loaded, err := s.store.Tasks().FindByIDs(missing)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent tasks: %w", err)
		}
		for _, parent := range loaded {
			parents[parent.ID] = parent
		}
	}

	return parents, nil
}
