package service

import (
	"context"
	"strings"

	"tasktracker/internal/model"
	"tasktracker/internal/policy"
)

// CommentView is a comment as seen by one actor.
type CommentView struct {
	model.Comment
	IsOwn bool
}

func (s *TaskService) AddComment(ctx context.Context, taskID uint64, text string, actorID uint64) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	actor, _, err := s.visibleTask(ctx, taskID, actorID, policy.CommentOn)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TaskID:    taskID,
		UserID:    actor.ID,
		Body:      text,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, translate(err, ErrTaskNotFound)
	}
	return comment, nil
}

// ListComments returns the comments on a task, newest first.
func (s *TaskService) ListComments(ctx context.Context, taskID, actorID uint64) ([]CommentView, error) {
	actor, _, err := s.visibleTask(ctx, taskID, actorID, policy.View)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, taskID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, IsOwn: c.UserID == actor.ID})
	}
	return views, nil
}

// DeleteComment removes a comment. Authors may delete their own comments,
// admins any comment.
func (s *TaskService) DeleteComment(ctx context.Context, taskID, commentID, actorID uint64) error {
	actor, err := resolveActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	comment, err := s.store.GetComment(ctx, taskID, commentID)
	if err != nil {
		return translate(err, ErrCommentNotFound)
	}

	if d := policy.CanDeleteComment(actor, comment); !d.Allowed {
		return forbidden(policy.CommentOn, d)
	}
	return translate(s.store.DeleteComment(ctx, taskID, commentID), ErrCommentNotFound)
}
