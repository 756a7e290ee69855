package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
)

// CreateTask stores a new pending task with its initial assignees. The
// initial assignment is not audited separately from "Created task".
func (s *TaskService) CreateTask(ctx context.Context, in model.NewTask, actorID uint64) (*model.Task, error) {
	task, err := buildTask(in, actorID)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := resolveActor(ctx, tx, actorID); err != nil {
			return err
		}

		now := s.now()
		task.CreatedAt, task.UpdatedAt = now, now
		if err := tx.CreateTask(ctx, task); err != nil {
			return translate(err, nil)
		}

		rows, err := replaceAssignments(ctx, tx, task.ID, in.AssigneeIDs, actorID, now)
		if err != nil {
			return err
		}
		task.Assignments = rows

		return appendHistory(ctx, tx, task.ID, actorID, model.ActionCreated, now)
	})
	if err != nil {
		return nil, s.fail(ctx, "create_task", task.ID, actorID, err)
	}
	return task, nil
}

func buildTask(in model.NewTask, actorID uint64) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	case description == "":
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	case in.DueDate.IsZero():
		return nil, fmt.Errorf("%w: due date is required", ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrValidation, model.ErrUnknownPriority)
	}

	return &model.Task{
		Title:        title,
		Description:  description,
		DueDate:      datatypes.Date(in.DueDate),
		Priority:     priority,
		Status:       model.StatusPending,
		DepartmentID: in.DepartmentID,
		CreatedBy:    actorID,
		Version:      1,
	}, nil
}

// UpdateFields edits the descriptive fields of an active task. Only admins
// may move a task to another department.
func (s *TaskService) UpdateFields(ctx context.Context, taskID uint64, fields model.TaskFields, actorID uint64) (*model.Task, error) {
	fields, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	var result *model.Task
	err = s.mutate(ctx, "update_fields", taskID, actorID, func(ctx context.Context, op *taskOp) error {
		if err := op.authorize(policy.EditFields); err != nil {
			return err
		}
		if op.task.InTrash() {
			return ErrTaskTrashed
		}
		if fields.DepartmentID != nil && !op.actor.IsAdmin() {
			return &ForbiddenError{Action: policy.EditFields, Reason: policy.ReasonAdminOnly}
		}
		if err := op.apply(ctx, fields.AsUpdate(), model.ActionUpdatedDetails); err != nil {
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

// normalizeFields trims text fields and rejects edits that would blank a
// required column.
func normalizeFields(fields model.TaskFields) (model.TaskFields, error) {
	if fields.Empty() {
		return fields, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return fields, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		fields.Title = &title
	}
	if fields.Description != nil {
		description := strings.TrimSpace(*fields.Description)
		if description == "" {
			return fields, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		fields.Description = &description
	}
	if fields.DueDate != nil && fields.DueDate.IsZero() {
		return fields, fmt.Errorf("%w: due date cannot be empty", ErrValidation)
	}
	if fields.Priority != nil && !fields.Priority.Valid() {
		return fields, fmt.Errorf("%w: %v", ErrValidation, model.ErrUnknownPriority)
	}
	return fields, nil
}

// GetTask returns a task with its assignees.
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID uint64) (*model.Task, error) {
	_, task, err := s.visibleTask(ctx, taskID, actorID, policy.View)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns the active tasks the actor may see.
func (s *TaskService) ListTasks(ctx context.Context, filter model.TaskFilter, actorID uint64) ([]model.Task, error) {
	actor, err := resolveActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrValidation, model.ErrUnknownStatus)
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrValidation, model.ErrUnknownPriority)
	}
	filter.VisibleTo = policy.VisibilityFor(actor)

	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return visibleTo(actor, tasks), nil
}

// ListTrashed returns the trash, most recently deleted first. Admin only.
func (s *TaskService) ListTrashed(ctx context.Context, actorID uint64) ([]model.Task, error) {
	if err := s.reviewQueue(ctx, actorID, policy.Restore); err != nil {
		return nil, err
	}
	return s.store.ListTrashedTasks(ctx)
}

// ListAwaitingApproval returns active tasks waiting for review. Admin only.
func (s *TaskService) ListAwaitingApproval(ctx context.Context, actorID uint64) ([]model.Task, error) {
	if err := s.reviewQueue(ctx, actorID, policy.SetStatus(model.StatusCompleted)); err != nil {
		return nil, err
	}
	status := model.StatusAwaitingApproval
	return s.store.ListTasks(ctx, model.TaskFilter{Status: &status})
}

func (s *TaskService) reviewQueue(ctx context.Context, actorID uint64, action policy.Action) error {
	actor, err := resolveActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}
	if d := policy.CanReviewQueues(actor); !d.Allowed {
		return forbidden(action, d)
	}
	return nil
}

func visibleTo(actor policy.Actor, tasks []model.Task) []model.Task {
	out := tasks[:0]
	for i := range tasks {
		t := &tasks[i]
		if policy.CanPerform(actor, policy.View, t, t.AssigneeIDs()).Allowed {
			out = append(out, *t)
		}
	}
	return out
}
