package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	return mapError(r.db.WithContext(ctx).Create(comment).Error, nil)
}

// Get returns the comment only if it belongs to taskID.
func (r *CommentRepository) Get(ctx context.Context, taskID, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND task_id = ?", commentID, taskID).
		First(&comment).Error
	if err != nil {
		return nil, mapError(err, ErrCommentNotFound)
	}
	return &comment, nil
}

// ListByTask returns comments newest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, taskID, commentID uint64) error {
	result := r.db.WithContext(ctx).Exec(
		"DELETE FROM task_comments WHERE id = ? AND task_id = ?",
		commentID, taskID,
	)
	if result.Error != nil {
		return mapError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	err := r.db.WithContext(ctx).Exec("DELETE FROM task_comments WHERE task_id = ?", taskID).Error
	return mapError(err, nil)
}
