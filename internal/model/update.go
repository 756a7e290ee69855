package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrIncoherentUpdate = errors.New("status and deletion fields must change together")

// TaskUpdate names exactly the task columns a mutation writes. Nil fields are
// not written. Status and Trash move together so that is_deleted and
// status = trashed can never diverge.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *datatypes.Date
	Priority     *Priority
	DepartmentID *uint64
	Status       *TaskStatus
	Feedback     *string
	Trash        *TrashState
}

type TrashState struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// StatusChange moves a task to target, optionally recording reviewer feedback.
func StatusChange(target TaskStatus, feedback *string) TaskUpdate {
	return TaskUpdate{Status: &target, Feedback: feedback}
}

// MoveToTrash soft-deletes a task at the given instant.
func MoveToTrash(at time.Time) TaskUpdate {
	status := StatusTrashed
	return TaskUpdate{
		Status: &status,
		Trash:  &TrashState{IsDeleted: true, DeletedAt: &at},
	}
}

// RestoreFromTrash puts a soft-deleted task back to pending.
func RestoreFromTrash() TaskUpdate {
	status := StatusPending
	return TaskUpdate{
		Status: &status,
		Trash:  &TrashState{IsDeleted: false},
	}
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && u.Priority == nil &&
		u.DepartmentID == nil && u.Status == nil && u.Feedback == nil && u.Trash == nil
}

// Validate rejects updates that would break the trash invariant or write an
// unknown enum value.
func (u TaskUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return ErrUnknownStatus
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return ErrUnknownPriority
	}

	entersTrash := u.Status != nil && *u.Status == StatusTrashed
	switch {
	case entersTrash && (u.Trash == nil || !u.Trash.IsDeleted || u.Trash.DeletedAt == nil):
		return ErrIncoherentUpdate
	case u.Trash != nil && u.Status == nil:
		return ErrIncoherentUpdate
	case u.Trash != nil && u.Trash.IsDeleted && !entersTrash:
		return ErrIncoherentUpdate
	}
	return nil
}

// Columns renders the update as a column map. A status change that is not
// part of a trash or restore leaves the deletion columns alone; callers only
// issue such changes against active tasks.
func (u TaskUpdate) Columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.DueDate != nil {
		cols["due_date"] = *u.DueDate
	}
	if u.Priority != nil {
		cols["priority"] = *u.Priority
	}
	if u.DepartmentID != nil {
		cols["department_id"] = *u.DepartmentID
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.Feedback != nil {
		cols["feedback"] = *u.Feedback
	}
	if u.Trash != nil {
		cols["is_deleted"] = u.Trash.IsDeleted
		cols["deleted_at"] = u.Trash.DeletedAt
	}
	return cols
}

// Apply mirrors the update onto an in-memory snapshot.
func (u TaskUpdate) Apply(t *Task, now time.Time) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DepartmentID != nil {
		id := *u.DepartmentID
		t.DepartmentID = &id
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Feedback != nil {
		fb := *u.Feedback
		t.Feedback = &fb
	}
	if u.Trash != nil {
		t.IsDeleted = u.Trash.IsDeleted
		t.DeletedAt = u.Trash.DeletedAt
	}
	t.Version++
	t.UpdatedAt = now
}
