package models

import "time"

// ErrorLog is the append-only error log row written by the error middleware.
type ErrorLog struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Date      time.Time `gorm:"column:date;not null"`
	Thread    string    `gorm:"column:thread;size:255"`
	Level     string    `gorm:"column:level;size:50"`
	Logger    string    `gorm:"column:logger;size:255"`
	Message   string    `gorm:"column:message;size:4000"`
	Exception string    `gorm:"column:exception;size:2000"`
}
