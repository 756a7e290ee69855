package handler

import (
	"context"
	"net/http"

	"tasktracker/internal/model"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentService interface {
	AddComment(ctx context.Context, taskID uint64, text string, actorID uint64) (*model.Comment, error)
	ListComments(ctx context.Context, taskID, actorID uint64) ([]service.CommentView, error)
	DeleteComment(ctx context.Context, taskID, commentID, actorID uint64) error
}

type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List godoc
// @Summary      List comments, newest first
// @Tags         Comments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path     int  true  "Task ID"
// @Success      200  {array}  CommentResponse
// @Router       /tasks/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	views, err := h.comments.ListComments(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentList(views))
}

// Create godoc
// @Summary      Comment on a task
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "Task ID"
// @Param        comment  body      CommentRequest  true  "Comment"
// @Success      201      {object}  CommentResponse
// @Router       /tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Comment text is required")
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), taskID, req.Comment, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(comment, true))
}

// Delete godoc
// @Summary      Delete a comment (author or admin)
// @Tags         Comments
// @Security     BearerAuth
// @Param        id          path  int  true  "Task ID"
// @Param        comment_id  path  int  true  "Comment ID"
// @Success      204
// @Router       /tasks/{id}/comments/{comment_id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), taskID, commentID, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
