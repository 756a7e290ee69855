package service

import (
	"context"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
)

func appendHistory(ctx context.Context, h ports.HistoryStore, taskID, actorID uint64, action string, at time.Time) error {
	return h.AppendHistory(ctx, &model.HistoryEntry{
		TaskID:    taskID,
		UserID:    actorID,
		Action:    action,
		CreatedAt: at,
	})
}

// History returns the audit trail of a task, oldest entry first.
func (s *TaskService) History(ctx context.Context, taskID, actorID uint64) ([]model.HistoryEntry, error) {
	if _, _, err := s.visibleTask(ctx, taskID, actorID, policy.View); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, taskID)
}
