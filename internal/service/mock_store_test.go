package service_test

import (
	"context"

	"tasktracker/internal/model"
	"tasktracker/internal/ports"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of ports.Store. WithinTx runs the callback
// against the mock itself.
type MockStore struct {
	mock.Mock
}

var _ ports.Store = (*MockStore)(nil)

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	return fn(m)
}

func (m *MockStore) CreateTask(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockStore) GetTask(ctx context.Context, id uint64) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockStore) LockTask(ctx context.Context, id uint64) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockStore) UpdateTask(ctx context.Context, id uint64, version int64, update model.TaskUpdate) error {
	args := m.Called(ctx, id, version, update)
	return args.Error(0)
}

func (m *MockStore) DeleteTask(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockStore) ListTrashedTasks(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockStore) ListAssignments(ctx context.Context, taskID uint64) ([]model.Assignment, error) {
	args := m.Called(ctx, taskID)
	rows, _ := args.Get(0).([]model.Assignment)
	return rows, args.Error(1)
}

func (m *MockStore) ReplaceAssignments(ctx context.Context, taskID uint64, rows []model.Assignment) error {
	args := m.Called(ctx, taskID, rows)
	return args.Error(0)
}

func (m *MockStore) DeleteAssignment(ctx context.Context, taskID, userID uint64) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockStore) DeleteAssignments(ctx context.Context, taskID uint64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockStore) AppendHistory(ctx context.Context, entry *model.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) ListHistory(ctx context.Context, taskID uint64) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, taskID)
	entries, _ := args.Get(0).([]model.HistoryEntry)
	return entries, args.Error(1)
}

func (m *MockStore) DeleteHistory(ctx context.Context, taskID uint64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockStore) GetComment(ctx context.Context, taskID, commentID uint64) (*model.Comment, error) {
	args := m.Called(ctx, taskID, commentID)
	comment := args.Get(0)
	if comment == nil {
		return nil, args.Error(1)
	}
	return comment.(*model.Comment), args.Error(1)
}

func (m *MockStore) ListComments(ctx context.Context, taskID uint64) ([]model.Comment, error) {
	args := m.Called(ctx, taskID)
	comments, _ := args.Get(0).([]model.Comment)
	return comments, args.Error(1)
}

func (m *MockStore) DeleteComment(ctx context.Context, taskID, commentID uint64) error {
	args := m.Called(ctx, taskID, commentID)
	return args.Error(0)
}

func (m *MockStore) DeleteComments(ctx context.Context, taskID uint64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockStore) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockStore) CountUsers(ctx context.Context, ids []uint64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}
