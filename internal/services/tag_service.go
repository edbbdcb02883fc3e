package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// TagService owns tag names and task membership
type TagService struct {
	store repository.Store
}

// NewTagService creates a new TagService
func NewTagService(store repository.Store) *TagService {
	return &TagService{store: store}
}

// GetOrCreateTag returns the tag with the given name, creating it if needed
func (s *TagService) GetOrCreateTag(name string) (*models.Tag, error) {
	name, err := validateTagName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.store.Tags().FirstOrCreate(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// GetTagByName finds a tag by its exact, case-sensitive name
func (s *TagService) GetTagByName(name string) (*models.Tag, error) {
	tag, err := s.store.Tags().FindByName(name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Entity: "tag", ID: strconv.Quote(name)}
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return tag, nil
}

// GetTagByID finds a tag by ID
func (s *TagService) GetTagByID(id uint64) (*models.Tag, error) {
	tag, err := s.store.Tags().FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Entity: "tag", ID: strconv.FormatUint(id, 10)}
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return tag, nil
}

// ResolveTag looks up a tag given as an ID or a name. Numeric input is tried
// as an ID first, so a tag named "42" is shadowed while tag 42 exists.
func (s *TagService) ResolveTag(ref string) (*models.Tag, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		tag, err := s.store.Tags().FindByID(id)
		if err == nil {
			return tag, nil
		}
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("failed to find tag: %w", err)
		}
	}
	return s.GetTagByName(ref)
}

// ResolveTagIDs resolves several tag references to IDs
func (s *TagService) ResolveTagIDs(refs []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(refs))
	for _, ref := range refs {
		tag, err := s.ResolveTag(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// ListTags returns all tags ordered by name
func (s *TagService) ListTags() ([]models.Tag, error) {
	tags, err := s.store.Tags().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// TagTask attaches a tag to a task. Tagging twice is not an error.
func (s *TagService) TagTask(taskID, tagID uint64) error {
	if err := s.ensureMembershipTargets(taskID, tagID, "tagging task"); err != nil {
		return err
	}

	if err := s.store.Tags().AddToTask(taskID, tagID); err != nil {
		return fmt.Errorf("failed to tag task: %w", err)
	}
	return nil
}

// UntagTask detaches a tag from a task and reports whether it was attached
func (s *TagService) UntagTask(taskID, tagID uint64) (bool, error) {
	if err := s.ensureMembershipTargets(taskID, tagID, "untagging task"); err != nil {
		return false, err
	}

	removed, err := s.store.Tags().RemoveFromTask(taskID, tagID)
	if err != nil {
		return false, fmt.Errorf("failed to untag task: %w", err)
	}
	return removed, nil
}

// GetTaskTags lists the tags of one task
func (s *TagService) GetTaskTags(taskID uint64) ([]models.Tag, error) {
	tags, err := s.store.Tags().ForTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task tags: %w", err)
	}
	return tags, nil
}

// GetAllTaskTags returns the tags of every tagged task, fetched in one query
func (s *TagService) GetAllTaskTags() (map[uint64][]models.Tag, error) {
	byTask, err := s.store.Tags().AllByTask()
	if err != nil {
		return nil, fmt.Errorf("failed to load task tags: %w", err)
	}
	return byTask, nil
}

func (s *TagService) ensureMembershipTargets(taskID, tagID uint64, op string) error {
	exists, err := s.store.Tasks().Exists(taskID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if !exists {
		return taskNotFound(taskID, op)
	}

	if _, err := s.store.Tags().FindByID(tagID); err != nil {
		if repository.IsNotFound(err) {
			return &NotFoundError{Entity: "tag", ID: strconv.FormatUint(tagID, 10), Op: op}
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	return nil
}

func validateTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 1 || n > models.MaxTagNameLength {
		return "", &ValidationError{
			Field:   "tag",
			Message: fmt.Sprintf("name must be between 1 and %d characters", models.MaxTagNameLength),
		}
	}
	return name, nil
}
