package ports

import (
	"context"
	"errors"

	"tasktracker/internal/model"
)

// Persistence errors. Implementations wrap these with the entity concerned.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrDuplicate       = errors.New("entity already exists")
	ErrVersionConflict = errors.New("stale version")
	ErrInvalidEntity   = errors.New("invalid entity")
)

// TaskStore persists task rows.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	// GetTask loads the task with its assignments.
	GetTask(ctx context.Context, id uint64) (*model.Task, error)
	// LockTask loads the task and holds a row lock until the surrounding
	// transaction ends.
	LockTask(ctx context.Context, id uint64) (*model.Task, error)
	// UpdateTask writes the update only if the stored version still equals
	// version, and increments it.
	UpdateTask(ctx context.Context, id uint64, version int64, update model.TaskUpdate) error
	DeleteTask(ctx context.Context, id uint64) error
	// ListTasks returns non-deleted tasks with their assignments, earliest
	// due date first.
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	// ListTrashedTasks returns soft-deleted tasks, most recently trashed first.
	ListTrashedTasks(ctx context.Context) ([]model.Task, error)
}

type AssignmentStore interface {
	ListAssignments(ctx context.Context, taskID uint64) ([]model.Assignment, error)
	// ReplaceAssignments deletes every assignment of the task and inserts the
	// given rows. Callers run it inside WithinTx.
	ReplaceAssignments(ctx context.Context, taskID uint64, rows []model.Assignment) error
	DeleteAssignment(ctx context.Context, taskID, userID uint64) error
	DeleteAssignments(ctx context.Context, taskID uint64) error
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, entry *model.HistoryEntry) error
	ListHistory(ctx context.Context, taskID uint64) ([]model.HistoryEntry, error)
	DeleteHistory(ctx context.Context, taskID uint64) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, taskID, commentID uint64) (*model.Comment, error)
	ListComments(ctx context.Context, taskID uint64) ([]model.Comment, error)
	DeleteComment(ctx context.Context, taskID, commentID uint64) error
	DeleteComments(ctx context.Context, taskID uint64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	// CountUsers returns how many of ids exist.
	CountUsers(ctx context.Context, ids []uint64) (int64, error)
}

// Store is everything the service layer needs from persistence.
type Store interface {
	TaskStore
	AssignmentStore
	HistoryStore
	CommentStore
	UserStore

	// WithinTx runs fn against a Store bound to one transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
