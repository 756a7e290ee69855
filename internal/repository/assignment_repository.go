package repository

import (
	"context"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByTask returns the assignments of a task in the order they were made.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID uint64) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("assigned_at, user_id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return rows, nil
}

// Replace swaps the whole assignee set of a task. It issues a delete followed
// by one insert per row and must run on a transaction handle for the swap to
// be atomic.
func (r *AssignmentRepository) Replace(ctx context.Context, taskID uint64, rows []model.Assignment) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec("DELETE FROM task_assignments WHERE task_id = ?", taskID).Error; err != nil {
		return mapError(err, nil)
	}

	for _, a := range rows {
		err := db.Exec(
			"INSERT INTO task_assignments (task_id, user_id, assigned_by, assigned_at) VALUES (?, ?, ?, ?)",
			taskID, a.UserID, a.AssignedBy, a.AssignedAt,
		).Error
		if err != nil {
			return mapError(err, nil)
		}
	}
	return nil
}

// Delete removes a single (task, user) pair.
func (r *AssignmentRepository) Delete(ctx context.Context, taskID, userID uint64) error {
	result := r.db.WithContext(ctx).Exec(
		"DELETE FROM task_assignments WHERE task_id = ? AND user_id = ?",
		taskID, userID,
	)
	if result.Error != nil {
		return mapError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// DeleteByTask removes every assignment of a task.
func (r *AssignmentRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	err := r.db.WithContext(ctx).Exec("DELETE FROM task_assignments WHERE task_id = ?", taskID).Error
	return mapError(err, nil)
}
