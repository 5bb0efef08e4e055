package models

// Role is an authorization group users are assigned to.
type Role struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;size:50;not null;uniqueIndex"`
	Description string `gorm:"column:description;size:200"`
	IsActive    bool   `gorm:"column:is_active;not null"`
}

// Well-known role names seeded by the initial migration.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)
