package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewEngine(repository.NewStore(db)), mock
}

func expectAttachmentQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT task_tags.task_id, tags.id AS tag_id, tags.name FROM `task_tags` JOIN tags").
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "tag_id", "name"}).
			AddRow(1, 10, "bug").
			AddRow(2, 10, "bug").
			AddRow(2, 11, "ui"))
	mock.ExpectQuery("SELECT \\* FROM `task_metadata`").
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "key", "value"}).
			AddRow(1, "points", "3"))
}

func TestHydrate_FetchesAttachmentsOnce(t *testing.T) {
	engine, mock := newMockEngine(t)
	expectAttachmentQueries(mock)

	parentID := uint64(1)
	tasks := []models.Task{
		{ID: 1, Title: "one", Status: models.TaskStatusReady},
		{ID: 2, Title: "two", Status: models.TaskStatusBacklog, ParentID: &parentID},
		{ID: 3, Title: "three", Status: models.TaskStatusBacklog, ParentID: &parentID},
	}

	views, err := engine.Query.Hydrate(tasks)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Len(t, views[0].Tags, 1)
	assert.Len(t, views[0].Metadata, 1)
	assert.Len(t, views[1].Tags, 2)
	assert.Empty(t, views[2].Tags)
	require.NotNil(t, views[2].Parent)
	assert.Equal(t, "one", views[2].Parent.Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHydrate_LoadsMissingParentsInOneQuery(t *testing.T) {
	engine, mock := newMockEngine(t)
	expectAttachmentQueries(mock)
	mock.ExpectQuery("SELECT \\* FROM `tasks` WHERE id IN").
		WithArgs(7, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow(7, "seven", "ready").
			AddRow(8, "eight", "review"))

	seven, eight := uint64(7), uint64(8)
	tasks := []models.Task{
		{ID: 1, Title: "one", ParentID: &seven},
		{ID: 2, Title: "two", ParentID: &eight},
		{ID: 3, Title: "three", ParentID: &seven},
	}

	views, err := engine.Query.Hydrate(tasks)
	require.NoError(t, err)
	assert.Equal(t, "seven", views[0].Parent.Title)
	assert.Equal(t, models.TaskStatusReview, views[1].Parent.Status)
	assert.Equal(t, "seven", views[2].Parent.Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}
