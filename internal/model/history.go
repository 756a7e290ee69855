package model

import "time"

// HistoryEntry is one append-only audit record of a task mutation.
type HistoryEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TaskID    uint64    `gorm:"not null;index"`
	UserID    uint64    `gorm:"not null"`
	Action    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (HistoryEntry) TableName() string {
	return "task_history"
}

// Audit actions written by the lifecycle operations.
const (
	ActionCreated           = "Created task"
	ActionUpdatedDetails    = "Updated task details"
	ActionUpdatedAssignment = "Updated task assignments"
	ActionRemovedAssignee   = "Removed task assignee"
	ActionTrashed           = "Moved task to trash"
	ActionRestored          = "Restored task from trash"
	ActionPurged            = "Permanently deleted task"
)

// StatusChangedAction is the audit action for a status transition.
func StatusChangedAction(target TaskStatus) string {
	return "Changed status to " + string(target)
}
