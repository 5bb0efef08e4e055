package models

import "time"

// User represents the canonical identity entity.
type User struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName    string     `gorm:"column:first_name;size:100;not null"`
	LastName     string     `gorm:"column:last_name;size:100;not null"`
	Email        string     `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;size:500;not null"`
	PhoneNumber  *string    `gorm:"column:phone_number;size:15"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	Roles        []Role     `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	Orders       []Order    `gorm:"foreignKey:UserID"`
}
