package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

type Task struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement"`
	Title        string         `gorm:"not null"`
	Description  string         `gorm:"not null"`
	DueDate      datatypes.Date `gorm:"not null"`
	Priority     Priority       `gorm:"type:varchar(16);not null"`
	Status       TaskStatus     `gorm:"type:varchar(32);not null;index"`
	DepartmentID *uint64        `gorm:"index"`
	CreatedBy    uint64         `gorm:"not null;index"`
	Feedback     *string
	IsDeleted    bool `gorm:"not null;index"`
	DeletedAt    *time.Time
	Version      int64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Assignments []Assignment `gorm:"foreignKey:TaskID"`
}

// ErrTrashInvariant signals a row whose deletion flag disagrees with its status.
var ErrTrashInvariant = errors.New("is_deleted must be set exactly when status is trashed")

// InTrash reports whether the task is soft-deleted.
func (t *Task) InTrash() bool {
	return t.Status == StatusTrashed && t.IsDeleted
}

// CheckInvariant verifies is_deleted <=> status == trashed.
func (t *Task) CheckInvariant() error {
	if t.IsDeleted != (t.Status == StatusTrashed) {
		return ErrTrashInvariant
	}
	if t.IsDeleted && t.DeletedAt == nil {
		return ErrTrashInvariant
	}
	return nil
}

// AssigneeIDs returns the user ids of the loaded assignments.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

// NewTask is the input for creating a task.
type NewTask struct {
	Title        string
	Description  string
	DueDate      time.Time
	Priority     Priority
	DepartmentID *uint64
	AssigneeIDs  []uint64
}

// TaskFields is a field-level edit of a task. Nil fields are left untouched.
type TaskFields struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Priority     *Priority
	DepartmentID *uint64
}

func (f TaskFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.DueDate == nil &&
		f.Priority == nil && f.DepartmentID == nil
}

// AsUpdate converts the edit into a column update.
func (f TaskFields) AsUpdate() TaskUpdate {
	u := TaskUpdate{
		Title:        f.Title,
		Description:  f.Description,
		Priority:     f.Priority,
		DepartmentID: f.DepartmentID,
	}
	if f.DueDate != nil {
		d := datatypes.Date(*f.DueDate)
		u.DueDate = &d
	}
	return u
}

// TaskFilter narrows a task listing. Trashed tasks are never included.
type TaskFilter struct {
	Status       *TaskStatus
	Priority     *Priority
	DepartmentID *uint64
	AssigneeID   *uint64

	// VisibleTo restricts the listing to tasks the user is assigned to,
	// created, or that belong to their department.
	VisibleTo *Visibility
}

type Visibility struct {
	UserID       uint64
	DepartmentID *uint64
}
