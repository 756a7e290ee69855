package service

import (
	"context"
	"fmt"
	"strings"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
)

// Transition moves a task to target. Feedback is stored only when a task
// under review goes back to in_progress.
func (s *TaskService) Transition(ctx context.Context, taskID uint64, target model.TaskStatus, feedback *string, actorID uint64) (*model.Task, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	var result *model.Task
	err := s.mutate(ctx, "transition", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.SetStatus(target)); err != nil {
			return err
		}
		if !op.task.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, op.task.Status, target)
		}

		if op.task.Status != model.StatusAwaitingApproval || target != model.StatusInProgress {
			feedback = nil
		}
		if err := op.apply(ctx, model.StatusChange(target, normalizeFeedback(feedback)), model.StatusChangedAction(target)); err != nil {
			return err
		}
		result = op.task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve completes a task that is awaiting approval.
func (s *TaskService) Approve(ctx context.Context, taskID, actorID uint64) (*model.Task, error) {
	return s.review(ctx, "approve", taskID, model.StatusCompleted, nil, actorID)
}

// Reject sends a task under review back to in_progress with optional
// feedback for the assignees.
func (s *TaskService) Reject(ctx context.Context, taskID uint64, feedback *string, actorID uint64) (*model.Task, error) {
	return s.review(ctx, "reject", taskID, model.StatusInProgress, normalizeFeedback(feedback), actorID)
}

func (s *TaskService) review(ctx context.Context, operation string, taskID uint64, target model.TaskStatus, feedback *string, actorID uint64) (*model.Task, error) {
	var result *model.Task
	err := s.mutate(ctx, operation, taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.SetStatus(target)); err != nil {
			return err
		}
		if op.task.Status != model.StatusAwaitingApproval {
			return ErrNotAwaitingApproval
		}
		if err := op.apply(ctx, model.StatusChange(target, feedback), model.StatusChangedAction(target)); err != nil {
			return err
		}
		result = op.task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeFeedback(feedback *string) *string {
	if feedback == nil {
		return nil
	}
	text := strings.TrimSpace(*feedback)
	if text == "" {
		return nil
	}
	return &text
}
