package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by listing and relationship lookups.
// Progress goes to the gorm logger, so it is only shown when SQL logging is on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Children lookups are ordered by id
		{"tasks", "idx_tasks_parent_id_id", "parent_id, id"},
		{"tasks", "idx_tasks_status_id", "status, id"},

		// Reverse edge direction for "what blocks X"
		{"task_blocks", "idx_task_blocks_blocked_blocker", "blocked_id, blocker_id"},

		{"task_tags", "idx_task_tags_tag_task", "tag_id, task_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		db.Logger.Info(context.Background(), "Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
