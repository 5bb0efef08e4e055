package models

// Category groups products into the catalog taxonomy.
type Category struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex"`
	Description string    `gorm:"column:description;size:500"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	Products    []Product `gorm:"foreignKey:CategoryID"`
}
