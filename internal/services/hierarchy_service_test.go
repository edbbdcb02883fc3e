package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type HierarchyServiceTestSuite struct {
	EngineTestSuite
}

func TestHierarchyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HierarchyServiceTestSuite))
}

func (suite *HierarchyServiceTestSuite) TestSetParent_Self() {
	task := suite.createTask("a", "", nil)

	err := suite.engine.Hierarchy.SetParent(task.ID, &task.ID)
	assert.ErrorIs(suite.T(), err, ErrCycle)

	reloaded, err := suite.engine.Tasks.GetTask(task.ID)
	suite.Require().NoError(err)
	assert.Nil(suite.T(), reloaded.ParentID)
}

func (suite *HierarchyServiceTestSuite) TestSetParent_TwoNodeCycle() {
	a := suite.createTask("a", "", nil)
	b := suite.createTask("b", "", &a.ID)

	err := suite.engine.Hierarchy.SetParent(a.ID, &b.ID)
	suite.Require().Error(err)
	assert.ErrorIs(suite.T(), err, ErrCycle)

	var cycleErr *CycleError
	suite.Require().ErrorAs(err, &cycleErr)
	assert.Equal(suite.T(), GraphHierarchy, cycleErr.Graph)

	reloaded, err := suite.engine.Tasks.GetTask(a.ID)
	suite.Require().NoError(err)
	assert.Nil(suite.T(), reloaded.ParentID)
}

func (suite *HierarchyServiceTestSuite) TestSetParent_DeepCycle() {
	a := suite.createTask("a", "", nil)
	b := suite.createTask("b", "", &a.ID)
	c := suite.createTask("c", "", &b.ID)
	d := suite.createTask("d", "", &c.ID)

	assert.ErrorIs(suite.T(), suite.engine.Hierarchy.SetParent(a.ID, &d.ID), ErrCycle)
	assert.ErrorIs(suite.T(), suite.engine.Hierarchy.SetParent(b.ID, &d.ID), ErrCycle)

	// moving a branch sideways is fine
	suite.Require().NoError(suite.engine.Hierarchy.SetParent(d.ID, &a.ID))
	reloaded, err := suite.engine.Tasks.GetTask(d.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), a.ID, *reloaded.ParentID)
}

func (suite *HierarchyServiceTestSuite) TestSetParent_MissingTasks() {
	a := suite.createTask("a", "", nil)

	err := suite.engine.Hierarchy.SetParent(a.ID, ptr(uint64(500)))
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Contains(suite.T(), err.Error(), "500")

	err = suite.engine.Hierarchy.SetParent(501, &a.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *HierarchyServiceTestSuite) TestSetParent_ClearMakesRoot() {
	a := suite.createTask("a", "", nil)
	b := suite.createTask("b", "", &a.ID)

	suite.Require().NoError(suite.engine.Hierarchy.SetParent(b.ID, nil))

	children, err := suite.engine.Hierarchy.GetChildren(a.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), children)
}

func (suite *HierarchyServiceTestSuite) TestGetChildren_MissingParent() {
	_, err := suite.engine.Hierarchy.GetChildren(77)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *HierarchyServiceTestSuite) TestMaterializeSubtree() {
	root := suite.createTask("Build login page", "", nil)
	form := suite.createTask("Design form", "", &root.ID)
	api := suite.createTask("Wire API", "", &root.ID)
	fields := suite.createTask("Pick fields", "", &form.ID)
	suite.createTask("unrelated", "", nil)

	tree, err := suite.engine.Hierarchy.MaterializeSubtree(root.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), root.ID, tree.Task.ID)
	suite.Require().Len(tree.Children, 2)
	assert.Equal(suite.T(), form.ID, tree.Children[0].Task.ID)
	assert.Equal(suite.T(), api.ID, tree.Children[1].Task.ID)
	suite.Require().Len(tree.Children[0].Children, 1)
	assert.Equal(suite.T(), fields.ID, tree.Children[0].Children[0].Task.ID)
	assert.Empty(suite.T(), tree.Children[1].Children)

	_, err = suite.engine.Hierarchy.MaterializeSubtree(9999)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

// Build login page -> Design form, Wire API; Wire API blocked by Design form.
func (suite *HierarchyServiceTestSuite) TestParentChildWithBlocking() {
	parent := suite.createTask("Build login page", "", nil)
	form := suite.createTask("Design form", "", &parent.ID)

	api, err := suite.engine.Tasks.CreateTask(CreateTaskInput{
		Title:     "Wire API",
		ParentID:  &parent.ID,
		BlockedBy: []uint64{form.ID},
	})
	suite.Require().NoError(err)

	children, err := suite.engine.Hierarchy.GetChildren(parent.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []uint64{form.ID, api.ID}, taskIDs(children))

	blockers, err := suite.engine.Blocks.GetBlockers(api.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []uint64{form.ID}, taskIDs(blockers))

	err = suite.engine.Hierarchy.SetParent(parent.ID, &api.ID)
	assert.ErrorIs(suite.T(), err, ErrCycle)
}
