package service_test

import (
	"errors"
	"fmt"
	"testing"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
	"tasktracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransition_AssigneeStartsWork(t *testing.T) {
	// Arrange
	svc, st := setup(t)
	task := activeTask(model.StatusPending)
	expectLocked(st, task, assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusInProgress, nil)).Return(nil)
	actions := recordHistory(st)

	// Act
	got, err := svc.Transition(ctx, taskID, model.StatusInProgress, nil, assigneeID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, int64(4), got.Version)
	assert.Equal(t, clock, got.UpdatedAt)
	assert.Equal(t, []string{"Changed status to in_progress"}, *actions)
	st.AssertExpectations(t)
}

func TestTransition_OnlyAdminCompletes(t *testing.T) {
	for _, actorID := range []uint64{assigneeID, creatorID, managerID} {
		t.Run(fmt.Sprint(actorID), func(t *testing.T) {
			svc, st := setup(t)
			expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID, managerID)

			_, err := svc.Transition(ctx, taskID, model.StatusCompleted, nil, actorID)

			assertForbidden(t, err, policy.ReasonCompletionRequiresAdmin)
			assertNoWrites(t, st)
		})
	}
}

func TestTransition_AdminCompletesTaskUnderReview(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusCompleted, nil)).Return(nil)
	actions := recordHistory(st)

	got, err := svc.Transition(ctx, taskID, model.StatusCompleted, nil, adminID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, []string{"Changed status to completed"}, *actions)
}

func TestTransition_UnknownStatus(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.Transition(ctx, taskID, model.TaskStatus("archived"), nil, adminID)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	st.AssertNotCalled(t, "LockTask", mock.Anything, mock.Anything)
}

func TestTransition_AdminFollowsTransitionTable(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusPending))

	_, err := svc.Transition(ctx, taskID, model.StatusCompleted, nil, adminID)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assertNoWrites(t, st)
}

func TestTransition_TrashedTaskCannotChangeStatus(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, trashedTask())

	_, err := svc.Transition(ctx, taskID, model.StatusPending, nil, adminID)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assertNoWrites(t, st)
}

func TestTransition_EmployeeLimitedToWorkStatuses(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusInProgress), assigneeID)

	_, err := svc.Transition(ctx, taskID, model.StatusPending, nil, assigneeID)

	assertForbidden(t, err, policy.ReasonStatusNotAllowed)
	assertNoWrites(t, st)
}

func TestTransition_EmployeeMustBeAssignee(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusPending), assigneeID)

	_, err := svc.Transition(ctx, taskID, model.StatusInProgress, nil, creatorID)

	assertForbidden(t, err, policy.ReasonNotAssignee)
}

func TestTransition_TaskNotFound(t *testing.T) {
	svc, st := setup(t)
	st.On("LockTask", mock.Anything, uint64(404)).Return(nil, fmt.Errorf("%w: task", ports.ErrNotFound))

	_, err := svc.Transition(ctx, 404, model.StatusInProgress, nil, adminID)

	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTransition_UnknownActor(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.Transition(ctx, taskID, model.StatusInProgress, nil, unknownID)

	assert.ErrorIs(t, err, service.ErrUnknownActor)
	st.AssertNotCalled(t, "LockTask", mock.Anything, mock.Anything)
}

func TestTransition_StaleVersionIsConflict(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusPending), assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), mock.Anything).
		Return(fmt.Errorf("%w: task", ports.ErrVersionConflict))

	_, err := svc.Transition(ctx, taskID, model.StatusInProgress, nil, assigneeID)

	assert.ErrorIs(t, err, service.ErrConflict)
	st.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
}

func TestTransition_FeedbackKeptOnlyWhenSentBack(t *testing.T) {
	t.Run("sent back from review", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusInProgress, ptr("Add the charts"))).Return(nil)
		recordHistory(st)

		got, err := svc.Transition(ctx, taskID, model.StatusInProgress, ptr("  Add the charts "), assigneeID)

		require.NoError(t, err)
		assert.Equal(t, "Add the charts", *got.Feedback)
	})

	t.Run("started from pending", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusPending), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusInProgress, nil)).Return(nil)
		recordHistory(st)

		got, err := svc.Transition(ctx, taskID, model.StatusInProgress, ptr("ignored"), assigneeID)

		require.NoError(t, err)
		assert.Nil(t, got.Feedback)
	})
}

func TestTransition_StoreFailureIsLoggedAndWrapped(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc, st := setupWithLogger(t, zap.New(core))
	expectLocked(st, activeTask(model.StatusPending), assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.Transition(ctx, taskID, model.StatusInProgress, nil, assigneeID)

	assert.ErrorIs(t, err, service.ErrTransactionFailed)
	assert.NotContains(t, err.Error(), "connection reset")

	entries := logs.FilterMessage("task transaction failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "transition", fields["operation"])
	assert.Equal(t, taskID, fields["task_id"])
	assert.Equal(t, assigneeID, fields["actor_id"])
	assert.Equal(t, "task_service", fields["component"])
}

func TestApprove(t *testing.T) {
	t.Run("admin approves task under review", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusCompleted, nil)).Return(nil)
		actions := recordHistory(st)

		got, err := svc.Approve(ctx, taskID, adminID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Equal(t, []string{"Changed status to completed"}, *actions)
	})

	t.Run("task not under review", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusInProgress), assigneeID)

		_, err := svc.Approve(ctx, taskID, adminID)

		assert.ErrorIs(t, err, service.ErrNotAwaitingApproval)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
		assertNoWrites(t, st)
	})

	t.Run("employee is checked before the phase", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusInProgress), assigneeID)

		_, err := svc.Approve(ctx, taskID, assigneeID)

		assertForbidden(t, err, policy.ReasonCompletionRequiresAdmin)
	})
}

func TestReject(t *testing.T) {
	t.Run("stores feedback", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusInProgress, ptr("Cite your sources"))).Return(nil)
		actions := recordHistory(st)

		got, err := svc.Reject(ctx, taskID, ptr("Cite your sources"), adminID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, got.Status)
		assert.Equal(t, "Cite your sources", *got.Feedback)
		assert.Equal(t, []string{"Changed status to in_progress"}, *actions)
	})

	t.Run("blank feedback is dropped", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusAwaitingApproval), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.StatusChange(model.StatusInProgress, nil)).Return(nil)
		recordHistory(st)

		_, err := svc.Reject(ctx, taskID, ptr("   "), adminID)

		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("requires awaiting approval", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusPending), assigneeID)

		_, err := svc.Reject(ctx, taskID, nil, adminID)

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
		assertNoWrites(t, st)
	})
}
