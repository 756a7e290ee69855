package service_test

import (
	"fmt"
	"testing"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
	"tasktracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	svc, st := setup(t)
	st.On("GetTask", mock.Anything, taskID).Return(activeTask(model.StatusInProgress), nil)
	st.On("CreateComment", mock.Anything, mock.AnythingOfType("*model.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Comment).ID = 7
		}).
		Return(nil)

	comment, err := svc.AddComment(ctx, taskID, "  Numbers are in the shared drive ", creatorID)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), comment.ID)
	assert.Equal(t, "Numbers are in the shared drive", comment.Body)
	assert.Equal(t, creatorID, comment.UserID)
	assert.Equal(t, clock, comment.CreatedAt)
}

func TestAddComment_Rejected(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		svc, st := setup(t)

		_, err := svc.AddComment(ctx, taskID, " \n ", creatorID)

		assert.ErrorIs(t, err, service.ErrEmptyComment)
		st.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
	})

	t.Run("unrelated employee", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetTask", mock.Anything, taskID).Return(activeTask(model.StatusInProgress), nil)

		_, err := svc.AddComment(ctx, taskID, "hello", outsiderID)

		assertForbidden(t, err, policy.ReasonNotRelated)
		st.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
	})

	t.Run("missing task", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetTask", mock.Anything, taskID).Return(nil, fmt.Errorf("%w: task", ports.ErrNotFound))

		_, err := svc.AddComment(ctx, taskID, "hello", creatorID)

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})
}

func TestListComments_MarksOwn(t *testing.T) {
	svc, st := setup(t)
	st.On("GetTask", mock.Anything, taskID).Return(activeTask(model.StatusInProgress), nil)
	st.On("ListComments", mock.Anything, taskID).Return([]model.Comment{
		{ID: 2, TaskID: taskID, UserID: managerID, Body: "ping", CreatedAt: clock},
		{ID: 1, TaskID: taskID, UserID: creatorID, Body: "draft", CreatedAt: clock.Add(-time.Hour)},
	}, nil)

	views, err := svc.ListComments(ctx, taskID, creatorID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.False(t, views[0].IsOwn)
	assert.True(t, views[1].IsOwn)
}

func TestDeleteComment(t *testing.T) {
	comment := &model.Comment{ID: 7, TaskID: taskID, UserID: creatorID, Body: "draft"}

	t.Run("author", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetComment", mock.Anything, taskID, uint64(7)).Return(comment, nil)
		st.On("DeleteComment", mock.Anything, taskID, uint64(7)).Return(nil)

		assert.NoError(t, svc.DeleteComment(ctx, taskID, 7, creatorID))
	})

	t.Run("admin", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetComment", mock.Anything, taskID, uint64(7)).Return(comment, nil)
		st.On("DeleteComment", mock.Anything, taskID, uint64(7)).Return(nil)

		assert.NoError(t, svc.DeleteComment(ctx, taskID, 7, adminID))
	})

	t.Run("someone else", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetComment", mock.Anything, taskID, uint64(7)).Return(comment, nil)

		err := svc.DeleteComment(ctx, taskID, 7, managerID)

		assertForbidden(t, err, policy.ReasonNotCommentAuthor)
		st.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("comment on another task", func(t *testing.T) {
		svc, st := setup(t)
		st.On("GetComment", mock.Anything, taskID, uint64(8)).
			Return(nil, fmt.Errorf("%w: comment", ports.ErrNotFound))

		err := svc.DeleteComment(ctx, taskID, 8, adminID)

		assert.ErrorIs(t, err, service.ErrCommentNotFound)
	})
}
