package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TaskID    uint64    `gorm:"not null;index"`
	UserID    uint64    `gorm:"not null"`
	Body      string    `gorm:"column:comment;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Comment) TableName() string {
	return "task_comments"
}
