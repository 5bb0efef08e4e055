package errorlog

import (
	"context"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository appends rows to the error_logs table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an error log repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a single error log row.
func (r *Repository) Insert(ctx context.Context, entry *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
