package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/taskgraph/internal/utils"
)

// Paginate applies pagination to a GORM query. A zero limit means no limit.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
