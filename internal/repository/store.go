package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tasktracker/internal/model"
	"tasktracker/internal/ports"
)

// Store implements ports.Store on top of the per-entity repositories. A Store
// built by WithinTx shares one transaction across all of them.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	tasks       *TaskRepository
	assignments *AssignmentRepository
	history     *HistoryRepository
	comments    *CommentRepository
	users       *UserRepository
}

var _ ports.Store = (*Store)(nil)

func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		db:          db,
		log:         log,
		tasks:       NewTaskRepository(db),
		assignments: NewAssignmentRepository(db),
		history:     NewHistoryRepository(db),
		comments:    NewCommentRepository(db),
		users:       NewUserRepository(db),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx, s.log))
	})
	if err != nil {
		s.log.Debug("transaction rolled back", zap.Error(err))
	}
	return err
}

func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	return s.tasks.Create(ctx, task)
}

func (s *Store) GetTask(ctx context.Context, id uint64) (*model.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Store) LockTask(ctx context.Context, id uint64) (*model.Task, error) {
	return s.tasks.Lock(ctx, id)
}

func (s *Store) UpdateTask(ctx context.Context, id uint64, version int64, update model.TaskUpdate) error {
	return s.tasks.Update(ctx, id, version, update)
}

func (s *Store) DeleteTask(ctx context.Context, id uint64) error {
	return s.tasks.Delete(ctx, id)
}

func (s *Store) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	return s.tasks.List(ctx, filter)
}

func (s *Store) ListTrashedTasks(ctx context.Context) ([]model.Task, error) {
	return s.tasks.ListTrashed(ctx)
}

func (s *Store) ListAssignments(ctx context.Context, taskID uint64) ([]model.Assignment, error) {
	return s.assignments.ListByTask(ctx, taskID)
}

func (s *Store) ReplaceAssignments(ctx context.Context, taskID uint64, rows []model.Assignment) error {
	return s.assignments.Replace(ctx, taskID, rows)
}

func (s *Store) DeleteAssignment(ctx context.Context, taskID, userID uint64) error {
	return s.assignments.Delete(ctx, taskID, userID)
}

func (s *Store) DeleteAssignments(ctx context.Context, taskID uint64) error {
	return s.assignments.DeleteByTask(ctx, taskID)
}

func (s *Store) AppendHistory(ctx context.Context, entry *model.HistoryEntry) error {
	return s.history.Append(ctx, entry)
}

func (s *Store) ListHistory(ctx context.Context, taskID uint64) ([]model.HistoryEntry, error) {
	return s.history.ListByTask(ctx, taskID)
}

func (s *Store) DeleteHistory(ctx context.Context, taskID uint64) error {
	return s.history.DeleteByTask(ctx, taskID)
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.comments.Create(ctx, comment)
}

func (s *Store) GetComment(ctx context.Context, taskID, commentID uint64) (*model.Comment, error) {
	return s.comments.Get(ctx, taskID, commentID)
}

func (s *Store) ListComments(ctx context.Context, taskID uint64) ([]model.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

func (s *Store) DeleteComment(ctx context.Context, taskID, commentID uint64) error {
	return s.comments.Delete(ctx, taskID, commentID)
}

func (s *Store) DeleteComments(ctx context.Context, taskID uint64) error {
	return s.comments.DeleteByTask(ctx, taskID)
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.users.Create(ctx, user)
}

func (s *Store) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *Store) CountUsers(ctx context.Context, ids []uint64) (int64, error) {
	return s.users.CountExisting(ctx, ids)
}
