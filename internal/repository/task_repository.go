package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tasktracker/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database. Assignments are written separately.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Version == 0 {
		task.Version = 1
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
	return mapError(err, nil)
}

// GetByID retrieves a task by its ID together with its assignments
func (r *TaskRepository) GetByID(ctx context.Context, id uint64) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("assigned_at, user_id") }).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err, ErrTaskNotFound)
	}
	return &task, nil
}

// Lock reads the task with SELECT ... FOR UPDATE. It only holds the lock when
// called on a transaction handle.
func (r *TaskRepository) Lock(ctx context.Context, id uint64) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err, ErrTaskNotFound)
	}
	return &task, nil
}

// Update writes the columns named by update when the stored version matches,
// bumping the version.
func (r *TaskRepository) Update(ctx context.Context, id uint64, version int64, update model.TaskUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}

	cols := update.Columns(time.Now())
	cols["version"] = gorm.Expr("version + 1")

	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", id, version).
		Updates(cols)
	if result.Error != nil {
		return mapError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return ErrStaleTask
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Exec("DELETE FROM tasks WHERE id = ?", id)
	if result.Error != nil {
		return mapError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// List returns the active tasks matching filter ordered by due date.
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("id IN (?)", r.assignedTo(*filter.AssigneeID))
	}
	if v := filter.VisibleTo; v != nil {
		if v.DepartmentID != nil {
			q = q.Where("(created_by = ? OR department_id = ? OR id IN (?))", v.UserID, *v.DepartmentID, r.assignedTo(v.UserID))
		} else {
			q = q.Where("(created_by = ? OR id IN (?))", v.UserID, r.assignedTo(v.UserID))
		}
	}

	var tasks []model.Task
	err := q.Preload("Assignments").Order("due_date ASC, id ASC").Find(&tasks).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return tasks, nil
}

// ListTrashed returns soft-deleted tasks, most recently trashed first.
func (r *TaskRepository) ListTrashed(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", true).
		Preload("Assignments").
		Order("deleted_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return tasks, nil
}

func (r *TaskRepository) assignedTo(userID uint64) *gorm.DB {
	return r.db.Model(&model.Assignment{}).Select("task_id").Where("user_id = ?", userID)
}
