package models

import "time"

// UserRole is the user/role join row. The composite primary key doubles as the
// uniqueness constraint that backstops concurrent duplicate assignments.
type UserRole struct {
	UserID     int64     `gorm:"column:user_id;primaryKey"`
	RoleID     int64     `gorm:"column:role_id;primaryKey"`
	AssignedAt time.Time `gorm:"column:assigned_at;autoCreateTime"`
}
