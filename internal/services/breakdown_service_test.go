package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskgraph/internal/models"
)

type fakeSuggester struct {
	subtasks []SuggestedSubtask
	err      error
	seen     []models.Task
}

func (f *fakeSuggester) SuggestSubtasks(ctx context.Context, task models.Task) ([]SuggestedSubtask, error) {
	f.seen = append(f.seen, task)
	return f.subtasks, f.err
}

type BreakdownServiceTestSuite struct {
	EngineTestSuite
}

func TestBreakdownServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BreakdownServiceTestSuite))
}

func (suite *BreakdownServiceTestSuite) TestBreakdown_CreatesChildren() {
	parent, err := suite.engine.Tasks.CreateTask(CreateTaskInput{Title: "Ship release", Author: ptr("alice")})
	suite.Require().NoError(err)

	suggester := &fakeSuggester{subtasks: []SuggestedSubtask{
		{Title: "Write changelog", Body: "List user-facing changes"},
		{Title: "  ", Body: "ignored"},
		{Title: "Tag version"},
	}}
	service := NewBreakdownService(suite.store, suggester)

	created, err := service.Breakdown(context.Background(), parent.ID)
	suite.Require().NoError(err)
	suite.Require().Len(created, 2)
	suite.Require().Len(suggester.seen, 1)
	assert.Equal(suite.T(), parent.ID, suggester.seen[0].ID)

	for _, child := range created {
		assert.Equal(suite.T(), parent.ID, *child.ParentID)
		assert.Equal(suite.T(), "alice", *child.Author)
		assert.Equal(suite.T(), models.TaskStatusBacklog, child.Status)
	}
	assert.Nil(suite.T(), created[1].Body)

	children, err := suite.engine.Hierarchy.GetChildren(parent.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), taskIDs(created), taskIDs(children))
}

func (suite *BreakdownServiceTestSuite) TestBreakdown_AllOrNothing() {
	parent := suite.createTask("parent", "", nil)
	suggester := &fakeSuggester{subtasks: []SuggestedSubtask{
		{Title: "fine"},
		{Title: strings.Repeat("x", models.MaxTitleLength+1)},
	}}

	_, err := NewBreakdownService(suite.store, suggester).Breakdown(context.Background(), parent.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)
	assert.Equal(suite.T(), int64(1), suite.countTasks())
}

func (suite *BreakdownServiceTestSuite) TestBreakdown_Failures() {
	parent := suite.createTask("parent", "", nil)

	_, err := NewBreakdownService(suite.store, nil).Breakdown(context.Background(), parent.ID)
	assert.ErrorIs(suite.T(), err, ErrAIServiceNotConfigured)

	_, err = NewBreakdownService(suite.store, &fakeSuggester{}).Breakdown(context.Background(), parent.ID)
	assert.ErrorIs(suite.T(), err, ErrAINoSubtasksGenerated)

	boom := errors.New("rate limited")
	_, err = NewBreakdownService(suite.store, &fakeSuggester{err: boom}).Breakdown(context.Background(), parent.ID)
	assert.ErrorIs(suite.T(), err, boom)

	_, err = NewBreakdownService(suite.store, &fakeSuggester{}).Breakdown(context.Background(), 999)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
