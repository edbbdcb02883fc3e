package services

import (
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskgraph/internal/config"
	"github.com/yukikurage/taskgraph/internal/database"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
	"gorm.io/gorm"
)

// EngineTestSuite runs each test against a fresh in-memory sqlite database
type EngineTestSuite struct {
	suite.Suite
	db     *gorm.DB
	store  *repository.GormStore
	engine *Engine
}

// SetupTest runs before each test
func (suite *EngineTestSuite) SetupTest() {
	db, err := database.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   ":memory:",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.MigrateDatabase(db))

	suite.db = db
	suite.store = repository.NewStore(db)
	suite.engine = NewEngine(suite.store)
}

// TearDownTest runs after each test
func (suite *EngineTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *EngineTestSuite) createTask(title string, status models.TaskStatus, parentID *uint64) *models.Task {
	task, err := suite.engine.Tasks.CreateTask(CreateTaskInput{
		Title:    title,
		Status:   status,
		ParentID: parentID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *EngineTestSuite) countTasks() int64 {
	count, err := suite.store.Tasks().CountAll()
	suite.Require().NoError(err)
	return count
}

func ptr[T any](v T) *T {
	return &v
}

func taskIDs(tasks []models.Task) []uint64 {
	ids := make([]uint64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func blockEdges(pairs ...[2]uint64) []models.TaskBlock {
	edges := make([]models.TaskBlock, len(pairs))
	for i, p := range pairs {
		edges[i] = models.TaskBlock{BlockerID: p[0], BlockedID: p[1]}
	}
	return edges
}
