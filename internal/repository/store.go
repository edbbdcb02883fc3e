package repository

import (
	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store over db
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *GormStore) Blocks() BlockRepository {
	return NewBlockRepository(s.db)
}

func (s *GormStore) Tags() TagRepository {
	return NewTagRepository(s.db)
}

func (s *GormStore) Metadata() MetadataRepository {
	return NewMetadataRepository(s.db)
}

// Transaction runs fn inside a database transaction. Nested calls use savepoints.
func (s *GormStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
