// Package service implements the task lifecycle: status transitions,
// assignment replacement, the trash sub-lifecycle and the audit trail, each
// gated by policy.CanPerform and run inside one store transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tasktracker/internal/logger"
	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
)

const component = "task_service"

type TaskService struct {
	store ports.Store
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*TaskService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func NewTaskService(store ports.Store, log *zap.Logger, opts ...Option) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &TaskService{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logger prefers the request-scoped logger carried by ctx.
func (s *TaskService) logger(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.log).With(zap.String("component", component))
}

// taskOp is the locked state a single mutation works on.
type taskOp struct {
	tx        ports.Store
	actor     policy.Actor
	task      *model.Task
	assignees []uint64
	now       time.Time
}

func (op *taskOp) authorize(action policy.Action) error {
	if d := policy.CanPerform(op.actor, action, op.task, op.assignees); !d.Allowed {
		return forbidden(action, d)
	}
	return nil
}

// apply writes update against the version that was locked, mirrors it onto
// the snapshot and appends the audit entry.
func (op *taskOp) apply(ctx context.Context, update model.TaskUpdate, action string) error {
	if err := op.tx.UpdateTask(ctx, op.task.ID, op.task.Version, update); err != nil {
		return translate(err, ErrTaskNotFound)
	}
	update.Apply(op.task, op.now)
	return op.audit(ctx, action)
}

func (op *taskOp) audit(ctx context.Context, action string) error {
	return appendHistory(ctx, op.tx, op.task.ID, op.actor.ID, action, op.now)
}

// mutate locks the task, loads its assignees and runs fn in one transaction.
// Errors outside the service taxonomy are logged and surfaced as
// ErrTransactionFailed.
func (s *TaskService) mutate(ctx context.Context, operation string, taskID, actorID uint64, fn func(ctx context.Context, op *taskOp) error) error {
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		actor, err := resolveActor(ctx, tx, actorID)
		if err != nil {
			return err
		}

		task, err := tx.LockTask(ctx, taskID)
		if err != nil {
			return translate(err, ErrTaskNotFound)
		}

		rows, err := tx.ListAssignments(ctx, taskID)
		if err != nil {
			return err
		}
		task.Assignments = rows

		return fn(ctx, &taskOp{
			tx:        tx,
			actor:     actor,
			task:      task,
			assignees: task.AssigneeIDs(),
			now:       s.now(),
		})
	})
	return s.fail(ctx, operation, taskID, actorID, err)
}

func (s *TaskService) fail(ctx context.Context, operation string, taskID, actorID uint64, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	s.logger(ctx).Error("task transaction failed",
		zap.String("operation", operation),
		zap.Uint64("task_id", taskID),
		zap.Uint64("actor_id", actorID),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s", ErrTransactionFailed, operation)
}

func resolveActor(ctx context.Context, users ports.UserStore, actorID uint64) (policy.Actor, error) {
	u, err := users.GetUser(ctx, actorID)
	if errors.Is(err, ports.ErrNotFound) {
		return policy.Actor{}, ErrUnknownActor
	}
	if err != nil {
		return policy.Actor{}, err
	}
	return policy.ActorFromUser(u), nil
}

// visibleTask loads a task for reading and checks the actor may view it.
func (s *TaskService) visibleTask(ctx context.Context, taskID, actorID uint64, action policy.Action) (policy.Actor, *model.Task, error) {
	actor, err := resolveActor(ctx, s.store, actorID)
	if err != nil {
		return policy.Actor{}, nil, err
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return policy.Actor{}, nil, translate(err, ErrTaskNotFound)
	}

	if d := policy.CanPerform(actor, action, task, task.AssigneeIDs()); !d.Allowed {
		return policy.Actor{}, nil, forbidden(action, d)
	}
	return actor, task, nil
}
