package model

import "time"

// Assignment links a user to a task. The pair (TaskID, UserID) is unique.
type Assignment struct {
	TaskID     uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserID     uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	AssignedBy uint64    `gorm:"not null"`
	AssignedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Assignment) TableName() string {
	return "task_assignments"
}
