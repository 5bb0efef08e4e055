package roles

import (
	"context"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes role lookup and assignment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByName loads a role by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByID loads a role by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns every role.
func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	var found []models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Assign creates the user/role join row. A duplicate assignment surfaces as a
// unique violation from the composite primary key.
func (r *Repository) Assign(ctx context.Context, userID, roleID int64) error {
	return r.db.WithContext(ctx).Create(&models.UserRole{
		UserID: userID,
		RoleID: roleID,
	}).Error
}

// Remove deletes the user/role join row and reports whether one existed.
func (r *Repository) Remove(ctx context.Context, userID, roleID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UserHasRole reports whether the user currently holds the role.
func (r *Repository) UserHasRole(ctx context.Context, userID, roleID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
