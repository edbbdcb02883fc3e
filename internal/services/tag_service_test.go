package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TagServiceTestSuite struct {
	EngineTestSuite
}

func TestTagServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TagServiceTestSuite))
}

func (suite *TagServiceTestSuite) TestGetOrCreateTag_ReturnsExisting() {
	first, err := suite.engine.Tags.GetOrCreateTag("bug")
	suite.Require().NoError(err)

	second, err := suite.engine.Tags.GetOrCreateTag("  bug ")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), first.ID, second.ID)

	tags, err := suite.engine.Tags.ListTags()
	suite.Require().NoError(err)
	assert.Len(suite.T(), tags, 1)
}

func (suite *TagServiceTestSuite) TestGetOrCreateTag_Validation() {
	_, err := suite.engine.Tags.GetOrCreateTag("")
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.engine.Tags.GetOrCreateTag(strings.Repeat("t", 101))
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.engine.Tags.GetOrCreateTag(strings.Repeat("t", 100))
	assert.NoError(suite.T(), err)
}

func (suite *TagServiceTestSuite) TestGetTagByName_NotFound() {
	_, err := suite.engine.Tags.GetTagByName("missing")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Contains(suite.T(), err.Error(), `"missing"`)
}

func (suite *TagServiceTestSuite) TestResolveTag_PrefersID() {
	bug, err := suite.engine.Tags.GetOrCreateTag("bug")
	suite.Require().NoError(err)

	// a tag whose name is the ID of another tag
	numeric, err := suite.engine.Tags.GetOrCreateTag(strconv.FormatUint(bug.ID, 10))
	suite.Require().NoError(err)

	resolved, err := suite.engine.Tags.ResolveTag(strconv.FormatUint(bug.ID, 10))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), bug.ID, resolved.ID)

	resolved, err = suite.engine.Tags.ResolveTag("bug")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), bug.ID, resolved.ID)

	// a numeric name with no tag at that ID falls back to the name
	orphan, err := suite.engine.Tags.GetOrCreateTag("777")
	suite.Require().NoError(err)
	resolved, err = suite.engine.Tags.ResolveTag("777")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), orphan.ID, resolved.ID)
	assert.NotEqual(suite.T(), numeric.ID, resolved.ID)

	ids, err := suite.engine.Tags.ResolveTagIDs([]string{"bug", "777"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []uint64{bug.ID, orphan.ID}, ids)

	_, err = suite.engine.Tags.ResolveTagIDs([]string{"bug", "nope"})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TagServiceTestSuite) TestTagTask_Idempotent() {
	task := suite.createTask("t", "", nil)
	tag, err := suite.engine.Tags.GetOrCreateTag("bug")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.engine.Tags.TagTask(task.ID, tag.ID))
	suite.Require().NoError(suite.engine.Tags.TagTask(task.ID, tag.ID))

	tags, err := suite.engine.Tags.GetTaskTags(task.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), tags, 1)
}

func (suite *TagServiceTestSuite) TestTagTask_MissingTargets() {
	task := suite.createTask("t", "", nil)
	tag, err := suite.engine.Tags.GetOrCreateTag("bug")
	suite.Require().NoError(err)

	err = suite.engine.Tags.TagTask(404, tag.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	err = suite.engine.Tags.TagTask(task.ID, 404)
	suite.Require().Error(err)
	var notFound *NotFoundError
	suite.Require().ErrorAs(err, &notFound)
	assert.Equal(suite.T(), "tag", notFound.Entity)
}

func (suite *TagServiceTestSuite) TestUntagTask() {
	task := suite.createTask("t", "", nil)
	tag, err := suite.engine.Tags.GetOrCreateTag("bug")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.engine.Tags.TagTask(task.ID, tag.ID))

	removed, err := suite.engine.Tags.UntagTask(task.ID, tag.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), removed)

	removed, err = suite.engine.Tags.UntagTask(task.ID, tag.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), removed)
}

func (suite *TagServiceTestSuite) TestGetAllTaskTags_MatchesPerTask() {
	a := suite.createTask("a", "", nil)
	b := suite.createTask("b", "", nil)
	c := suite.createTask("c", "", nil)

	for _, pair := range []struct {
		task uint64
		name string
	}{{a.ID, "ui"}, {a.ID, "bug"}, {b.ID, "bug"}} {
		tag, err := suite.engine.Tags.GetOrCreateTag(pair.name)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.engine.Tags.TagTask(pair.task, tag.ID))
	}

	all, err := suite.engine.Tags.GetAllTaskTags()
	suite.Require().NoError(err)

	for _, id := range []uint64{a.ID, b.ID, c.ID} {
		single, err := suite.engine.Tags.GetTaskTags(id)
		suite.Require().NoError(err)
		suite.Require().Len(all[id], len(single), "task %d", id)
		for i := range single {
			assert.Equal(suite.T(), single[i].ID, all[id][i].ID)
			assert.Equal(suite.T(), single[i].Name, all[id][i].Name)
		}
	}
	assert.NotContains(suite.T(), all, c.ID)
}
