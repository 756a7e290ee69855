package service

import (
	"context"
	"fmt"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
)

// ReplaceAssignees swaps the whole assignee set of a task. An empty set
// unassigns everyone. Either the full new set is stored or nothing changes.
func (s *TaskService) ReplaceAssignees(ctx context.Context, taskID uint64, userIDs []uint64, actorID uint64) ([]model.Assignment, error) {
	var result []model.Assignment
	err := s.mutate(ctx, "replace_assignees", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.Reassign); err != nil {
			return err
		}

		rows, err := replaceAssignments(ctx, op.tx, taskID, userIDs, op.actor.ID, op.now)
		if err != nil {
			return err
		}
		if err := op.audit(ctx, model.ActionUpdatedAssignment); err != nil {
			return err
		}
		result = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveAssignee unassigns a single user.
func (s *TaskService) RemoveAssignee(ctx context.Context, taskID, userID, actorID uint64) error {
	return s.mutate(ctx, "remove_assignee", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.Reassign); err != nil {
			return err
		}
		if err := op.tx.DeleteAssignment(ctx, taskID, userID); err != nil {
			return translate(err, ErrAssignmentNotFound)
		}
		return op.audit(ctx, model.ActionRemovedAssignee)
	})
}

// ListAssignments returns the current assignees of a task.
func (s *TaskService) ListAssignments(ctx context.Context, taskID, actorID uint64) ([]model.Assignment, error) {
	if _, _, err := s.visibleTask(ctx, taskID, actorID, policy.View); err != nil {
		return nil, err
	}
	return s.store.ListAssignments(ctx, taskID)
}

// replaceAssignments validates userIDs and writes them as the task's
// assignee set. It writes no history.
func replaceAssignments(ctx context.Context, tx ports.Store, taskID uint64, userIDs []uint64, assignedBy uint64, at time.Time) ([]model.Assignment, error) {
	ids, err := dedupeUserIDs(userIDs)
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		n, err := tx.CountUsers(ctx, ids)
		if err != nil {
			return nil, err
		}
		if n != int64(len(ids)) {
			return nil, ErrUnknownAssignee
		}
	}

	rows := make([]model.Assignment, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.Assignment{
			TaskID:     taskID,
			UserID:     id,
			AssignedBy: assignedBy,
			AssignedAt: at,
		})
	}

	if err := tx.ReplaceAssignments(ctx, taskID, rows); err != nil {
		return nil, translate(err, nil)
	}
	return rows, nil
}

// dedupeUserIDs drops repeated ids keeping first-seen order.
func dedupeUserIDs(userIDs []uint64) ([]uint64, error) {
	seen := make(map[uint64]struct{}, len(userIDs))
	ids := make([]uint64, 0, len(userIDs))
	for _, id := range userIDs {
		if id == 0 {
			return nil, fmt.Errorf("%w: invalid user id 0", ErrValidation)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
