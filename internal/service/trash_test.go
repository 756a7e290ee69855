package service_test

import (
	"errors"
	"testing"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrashThenRestore(t *testing.T) {
	svc, st := setup(t)
	task := activeTask(model.StatusInProgress)
	actions := recordHistory(st)

	expectLocked(st, task, assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), model.MoveToTrash(clock)).Return(nil).Once()
	require.NoError(t, svc.Trash(ctx, taskID, adminID))

	assert.Equal(t, model.StatusTrashed, task.Status)
	assert.True(t, task.IsDeleted)
	require.NotNil(t, task.DeletedAt)
	assert.Equal(t, clock, *task.DeletedAt)
	require.NoError(t, task.CheckInvariant())

	expectLocked(st, task, assigneeID)
	st.On("UpdateTask", mock.Anything, taskID, int64(4), model.RestoreFromTrash()).Return(nil).Once()
	require.NoError(t, svc.Restore(ctx, taskID, adminID))

	assert.Equal(t, model.StatusPending, task.Status)
	assert.False(t, task.IsDeleted)
	assert.Nil(t, task.DeletedAt)
	assert.Equal(t, int64(5), task.Version)
	assert.Equal(t, []string{"Moved task to trash", "Restored task from trash"}, *actions)
	st.AssertExpectations(t)
}

func TestTrash_Permissions(t *testing.T) {
	t.Run("creator may trash", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusPending), assigneeID)
		st.On("UpdateTask", mock.Anything, taskID, int64(3), model.MoveToTrash(clock)).Return(nil)
		recordHistory(st)

		assert.NoError(t, svc.Trash(ctx, taskID, creatorID))
	})

	t.Run("assignee may not", func(t *testing.T) {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusPending), assigneeID)

		err := svc.Trash(ctx, taskID, assigneeID)

		assertForbidden(t, err, policy.ReasonNotCreator)
		assertNoWrites(t, st)
	})
}

func TestTrash_AlreadyTrashed(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, trashedTask())

	err := svc.Trash(ctx, taskID, adminID)

	assert.ErrorIs(t, err, service.ErrAlreadyTrashed)
	assertNoWrites(t, st)
}

func TestRestore_SecondCallFindsNothingInTrash(t *testing.T) {
	svc, st := setup(t)
	task := trashedTask()
	recordHistory(st)

	expectLocked(st, task)
	st.On("UpdateTask", mock.Anything, taskID, int64(3), model.RestoreFromTrash()).Return(nil).Once()
	require.NoError(t, svc.Restore(ctx, taskID, adminID))

	expectLocked(st, task)
	err := svc.Restore(ctx, taskID, adminID)

	assert.ErrorIs(t, err, service.ErrTaskNotInTrash)
	assert.ErrorIs(t, err, service.ErrNotFound)
	st.AssertNumberOfCalls(t, "UpdateTask", 1)
}

func TestRestore_AdminOnly(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, trashedTask())

	err := svc.Restore(ctx, taskID, creatorID)

	assertForbidden(t, err, policy.ReasonAdminOnly)
	assertNoWrites(t, st)
}

func TestRestore_ActiveTaskIsNotFoundForEveryone(t *testing.T) {
	for _, actorID := range []uint64{adminID, creatorID} {
		svc, st := setup(t)
		expectLocked(st, activeTask(model.StatusPending))

		err := svc.Restore(ctx, taskID, actorID)

		assert.ErrorIs(t, err, service.ErrTaskNotInTrash)
	}
}

func TestPurge(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc, st := setupWithLogger(t, zap.New(core))
	expectLocked(st, trashedTask(), assigneeID)

	var audited string
	mock.InOrder(
		st.On("DeleteAssignments", mock.Anything, taskID).Return(nil),
		st.On("DeleteComments", mock.Anything, taskID).Return(nil),
		st.On("AppendHistory", mock.Anything, mock.AnythingOfType("*model.HistoryEntry")).
			Run(func(args mock.Arguments) {
				audited = args.Get(1).(*model.HistoryEntry).Action
			}).
			Return(nil),
		st.On("DeleteHistory", mock.Anything, taskID).Return(nil),
		st.On("DeleteTask", mock.Anything, taskID).Return(nil),
	)

	err := svc.Purge(ctx, taskID, adminID)

	require.NoError(t, err)
	assert.Equal(t, model.ActionPurged, audited)
	assert.Equal(t, 1, logs.FilterMessage("task purged").Len())
	st.AssertExpectations(t)
}

func TestPurge_ActiveTaskIsNotFound(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, activeTask(model.StatusCompleted))

	err := svc.Purge(ctx, taskID, adminID)

	assert.ErrorIs(t, err, service.ErrTaskNotInTrash)
	st.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestPurge_AdminOnly(t *testing.T) {
	svc, st := setup(t)
	expectLocked(st, trashedTask())

	err := svc.Purge(ctx, taskID, creatorID)

	assertForbidden(t, err, policy.ReasonAdminOnly)
	st.AssertNotCalled(t, "DeleteAssignments", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestPurge_FailureStopsTheSequence(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc, st := setupWithLogger(t, zap.New(core))
	expectLocked(st, trashedTask())
	st.On("DeleteAssignments", mock.Anything, taskID).Return(nil)
	st.On("DeleteComments", mock.Anything, taskID).Return(errors.New("disk full"))

	err := svc.Purge(ctx, taskID, adminID)

	assert.ErrorIs(t, err, service.ErrTransactionFailed)
	st.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
	assert.Equal(t, 0, logs.FilterMessage("task purged").Len())
	assert.Equal(t, 1, logs.FilterMessage("task transaction failed").Len())
}
