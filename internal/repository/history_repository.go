package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// HistoryRepository is append-only: entries are never updated, and only
// removed together with their task.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *model.HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return mapError(r.db.WithContext(ctx).Create(entry).Error, nil)
}

// ListByTask returns the audit trail oldest first.
func (r *HistoryRepository) ListByTask(ctx context.Context, taskID uint64) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, mapError(err, nil)
	}
	return entries, nil
}

func (r *HistoryRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	err := r.db.WithContext(ctx).Exec("DELETE FROM task_history WHERE task_id = ?", taskID).Error
	return mapError(err, nil)
}
