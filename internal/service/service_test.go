package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
	"tasktracker/internal/ports"
	"tasktracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	adminID    uint64 = 1
	managerID  uint64 = 2
	creatorID  uint64 = 10
	assigneeID uint64 = 20
	outsiderID uint64 = 30
	unknownID  uint64 = 999

	taskID uint64 = 100
)

var clock = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

var ctx = context.Background()

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*service.TaskService, *MockStore) {
	return setupWithLogger(t, zap.NewNop())
}

func setupWithLogger(t *testing.T, log *zap.Logger) (*service.TaskService, *MockStore) {
	t.Helper()
	st := new(MockStore)

	users := []*model.User{
		{ID: adminID, Username: "admin", Role: model.RoleAdmin},
		{ID: managerID, Username: "manager", Role: model.RoleManager, DepartmentID: ptr(uint64(9))},
		{ID: creatorID, Username: "creator", Role: model.RoleEmployee, DepartmentID: ptr(uint64(5))},
		{ID: assigneeID, Username: "assignee", Role: model.RoleEmployee},
		{ID: outsiderID, Username: "outsider", Role: model.RoleEmployee, DepartmentID: ptr(uint64(6))},
	}
	for _, u := range users {
		st.On("GetUser", mock.Anything, u.ID).Return(u, nil).Maybe()
	}
	st.On("GetUser", mock.Anything, unknownID).Return(nil, fmt.Errorf("%w: user", ports.ErrNotFound)).Maybe()

	svc := service.NewTaskService(st, log, service.WithClock(func() time.Time { return clock }))
	return svc, st
}

// activeTask belongs to department 5 and was created by creatorID.
func activeTask(status model.TaskStatus) *model.Task {
	return &model.Task{
		ID:           taskID,
		Title:        "Quarterly report",
		Description:  "Collect the Q3 numbers",
		DueDate:      datatypes.Date(clock.AddDate(0, 0, 7)),
		Priority:     model.PriorityHigh,
		Status:       status,
		DepartmentID: ptr(uint64(5)),
		CreatedBy:    creatorID,
		Version:      3,
	}
}

func trashedTask() *model.Task {
	task := activeTask(model.StatusTrashed)
	task.IsDeleted = true
	task.DeletedAt = ptr(clock.Add(-time.Hour))
	return task
}

func assignmentRows(task uint64, users ...uint64) []model.Assignment {
	rows := make([]model.Assignment, 0, len(users))
	for _, u := range users {
		rows = append(rows, model.Assignment{TaskID: task, UserID: u, AssignedBy: creatorID, AssignedAt: clock.Add(-24 * time.Hour)})
	}
	return rows
}

// expectLocked makes the next mutation on task see it with the given assignees.
func expectLocked(st *MockStore, task *model.Task, assignees ...uint64) {
	st.On("LockTask", mock.Anything, task.ID).Return(task, nil).Once()
	st.On("ListAssignments", mock.Anything, task.ID).Return(assignmentRows(task.ID, assignees...), nil).Once()
}

// recordHistory accepts every audit append and collects the actions.
func recordHistory(st *MockStore) *[]string {
	var actions []string
	st.On("AppendHistory", mock.Anything, mock.AnythingOfType("*model.HistoryEntry")).
		Run(func(args mock.Arguments) {
			actions = append(actions, args.Get(1).(*model.HistoryEntry).Action)
		}).
		Return(nil)
	return &actions
}

func assertForbidden(t *testing.T, err error, reason policy.Reason) {
	t.Helper()
	assert.ErrorIs(t, err, service.ErrForbidden)

	var fe *service.ForbiddenError
	if assert.ErrorAs(t, err, &fe) {
		assert.Equal(t, reason, fe.Reason)
	}
}

func assertNoWrites(t *testing.T, st *MockStore) {
	t.Helper()
	st.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "ReplaceAssignments", mock.Anything, mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}
