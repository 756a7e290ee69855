package service

import (
	"context"

	"go.uber.org/zap"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
)

// Trash soft-deletes a task. Assignments and comments are kept.
func (s *TaskService) Trash(ctx context.Context, taskID, actorID uint64) error {
	return s.mutate(ctx, "trash", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.Trash); err != nil {
			return err
		}
		if op.task.Status == model.StatusTrashed || op.task.IsDeleted {
			return ErrAlreadyTrashed
		}
		return op.apply(ctx, model.MoveToTrash(op.now), model.ActionTrashed)
	})
}

// Restore brings a trashed task back as pending. The task must be in the
// trash whoever asks.
func (s *TaskService) Restore(ctx context.Context, taskID, actorID uint64) error {
	return s.mutate(ctx, "restore", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if !op.task.InTrash() {
			return ErrTaskNotInTrash
		}
		if err := op.authorize(policy.Restore); err != nil {
			return err
		}
		return op.apply(ctx, model.RestoreFromTrash(), model.ActionRestored)
	})
}

// Purge destroys a trashed task with its assignments, comments and history.
// The final audit entry is written and removed in the same transaction.
func (s *TaskService) Purge(ctx context.Context, taskID, actorID uint64) error {
	err := s.mutate(ctx, "purge", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if !op.task.InTrash() {
			return ErrTaskNotInTrash
		}
		if err := op.authorize(policy.Purge); err != nil {
			return err
		}

		if err := op.tx.DeleteAssignments(ctx, taskID); err != nil {
			return err
		}
		if err := op.tx.DeleteComments(ctx, taskID); err != nil {
			return err
		}
		if err := op.audit(ctx, model.ActionPurged); err != nil {
			return err
		}
		if err := op.tx.DeleteHistory(ctx, taskID); err != nil {
			return err
		}
		return translate(op.tx.DeleteTask(ctx, taskID), ErrTaskNotFound)
	})
	if err != nil {
		return err
	}

	s.logger(ctx).Info("task purged", zap.Uint64("task_id", taskID), zap.Uint64("actor_id", actorID))
	return nil
}
