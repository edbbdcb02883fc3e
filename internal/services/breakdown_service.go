package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
)

// BreakdownService creates children for a task from suggested subtasks
type BreakdownService struct {
	store     repository.Store
	suggester SubtaskSuggester
}

// NewBreakdownService creates a new BreakdownService. suggester may be nil,
// in which case Breakdown fails with ErrAIServiceNotConfigured.
func NewBreakdownService(store repository.Store, suggester SubtaskSuggester) *BreakdownService {
	return &BreakdownService{store: store, suggester: suggester}
}

// Breakdown asks for subtasks of taskID and creates them as its children,
// each inheriting the parent's author. Either every child is created or none.
func (s *BreakdownService) Breakdown(ctx context.Context, taskID uint64) ([]models.Task, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	parent, err := NewTaskService(s.store).GetTask(taskID)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.suggester.SuggestSubtasks(ctx, *parent)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest subtasks: %w", err)
	}
	if len(suggestions) > MaxSuggestedSubtasks {
		suggestions = suggestions[:MaxSuggestedSubtasks]
	}

	var inputs []CreateTaskInput
	for _, suggestion := range suggestions {
		if strings.TrimSpace(suggestion.Title) == "" {
			continue
		}
		body := suggestion.Body
		inputs = append(inputs, CreateTaskInput{
			Title:    suggestion.Title,
			Body:     &body,
			Author:   parent.Author,
			ParentID: &parent.ID,
		})
	}
	if len(inputs) == 0 {
		return nil, ErrAINoSubtasksGenerated
	}

	created := make([]models.Task, 0, len(inputs))
	err = s.store.Transaction(func(tx repository.Store) error {
		tasks := NewTaskService(tx)
		for _, input := range inputs {
			task, err := tasks.CreateTask(input)
			if err != nil {
				return err
			}
			created = append(created, *task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
