package handler

import (
	"context"
	"net/http"
	"strconv"

	"tasktracker/internal/middleware"
	"tasktracker/internal/model"

	"github.com/gin-gonic/gin"
)

// TaskService is the task lifecycle as the HTTP layer uses it.
type TaskService interface {
	CreateTask(ctx context.Context, in model.NewTask, actorID uint64) (*model.Task, error)
	GetTask(ctx context.Context, taskID, actorID uint64) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter, actorID uint64) ([]model.Task, error)
	ListTrashed(ctx context.Context, actorID uint64) ([]model.Task, error)
	ListAwaitingApproval(ctx context.Context, actorID uint64) ([]model.Task, error)
	UpdateFields(ctx context.Context, taskID uint64, fields model.TaskFields, actorID uint64) (*model.Task, error)

	Transition(ctx context.Context, taskID uint64, target model.TaskStatus, feedback *string, actorID uint64) (*model.Task, error)
	Approve(ctx context.Context, taskID, actorID uint64) (*model.Task, error)
	Reject(ctx context.Context, taskID uint64, feedback *string, actorID uint64) (*model.Task, error)

	ListAssignments(ctx context.Context, taskID, actorID uint64) ([]model.Assignment, error)
	ReplaceAssignees(ctx context.Context, taskID uint64, userIDs []uint64, actorID uint64) ([]model.Assignment, error)
	RemoveAssignee(ctx context.Context, taskID, userID, actorID uint64) error

	Trash(ctx context.Context, taskID, actorID uint64) error
	Restore(ctx context.Context, taskID, actorID uint64) error
	Purge(ctx context.Context, taskID, actorID uint64) error

	History(ctx context.Context, taskID, actorID uint64) ([]model.HistoryEntry, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// actor returns the authenticated user id, answering 401 when it is missing.
func actor(c *gin.Context) (uint64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
	}
	return id, ok
}

func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return id, true
}

// taskRequest resolves the actor and the :id parameter.
func taskRequest(c *gin.Context) (actorID, taskID uint64, ok bool) {
	if actorID, ok = actor(c); !ok {
		return 0, 0, false
	}
	if taskID, ok = idParam(c, "id"); !ok {
		return 0, 0, false
	}
	return actorID, taskID, true
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        task  body      CreateTaskRequest  true  "New task"
// @Success      201   {object}  TaskResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), req.toModel(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// List godoc
// @Summary      List active tasks visible to the caller
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        status         query  string  false  "Status"
// @Param        priority       query  string  false  "Priority"
// @Param        department_id  query  int     false  "Department"
// @Param        assignee_id    query  int     false  "Assignee"
// @Success      200  {array}   TaskResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	var q TaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid filter")
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), q.toFilter(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskList(tasks))
}

// ListTrashed godoc
// @Summary      List the trash (admin)
// @Tags         Trash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   TaskResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /tasks/trashed [get]
func (h *TaskHandler) ListTrashed(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTrashed(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskList(tasks))
}

// ListPendingApprovals godoc
// @Summary      List tasks awaiting approval (admin)
// @Tags         Review
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   TaskResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /tasks/pending-approvals [get]
func (h *TaskHandler) ListPendingApprovals(c *gin.Context) {
	actorID, ok := actor(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListAwaitingApproval(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskList(tasks))
}

// GetByID godoc
// @Summary      Get a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update godoc
// @Summary      Edit task fields
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task ID"
// @Param        task  body      UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  TaskResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.UpdateFields(c.Request.Context(), taskID, req.toModel(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// SetStatus godoc
// @Summary      Change task status
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path      int            true  "Task ID"
// @Param        status  body      StatusRequest  true  "Target status"
// @Success      200     {object}  TaskResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      422     {object}  ErrorResponse
// @Router       /tasks/{id}/status [put]
func (h *TaskHandler) SetStatus(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.Transition(c.Request.Context(), taskID, model.TaskStatus(req.Status), req.Feedback, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Approve godoc
// @Summary      Approve a task under review (admin)
// @Tags         Review
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Router       /tasks/{id}/approve [post]
func (h *TaskHandler) Approve(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.tasks.Approve(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Reject godoc
// @Summary      Send a task under review back to work (admin)
// @Tags         Review
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id        path      int            true   "Task ID"
// @Param        feedback  body      RejectRequest  false  "Reviewer feedback"
// @Success      200       {object}  TaskResponse
// @Router       /tasks/{id}/reject [post]
func (h *TaskHandler) Reject(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	var req RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
	}

	task, err := h.tasks.Reject(c.Request.Context(), taskID, req.Feedback, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// ListAssignments godoc
// @Summary      List task assignees
// @Tags         Assignments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path     int  true  "Task ID"
// @Success      200  {array}  AssignmentResponse
// @Router       /tasks/{id}/assignments [get]
func (h *TaskHandler) ListAssignments(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	rows, err := h.tasks.ListAssignments(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentList(rows))
}

// ReplaceAssignments godoc
// @Summary      Replace the assignee set
// @Tags         Assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path     int                 true  "Task ID"
// @Param        body  body     AssignmentsRequest  true  "New assignees"
// @Success      200   {array}  AssignmentResponse
// @Router       /tasks/{id}/assignments [put]
func (h *TaskHandler) ReplaceAssignments(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	var req AssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	rows, err := h.tasks.ReplaceAssignees(c.Request.Context(), taskID, req.UserIDs, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentList(rows))
}

// RemoveAssignee godoc
// @Summary      Unassign one user
// @Tags         Assignments
// @Security     BearerAuth
// @Param        id       path  int  true  "Task ID"
// @Param        user_id  path  int  true  "User ID"
// @Success      204
// @Router       /tasks/{id}/assignments/{user_id} [delete]
func (h *TaskHandler) RemoveAssignee(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.tasks.RemoveAssignee(c.Request.Context(), taskID, userID, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Trash godoc
// @Summary      Move a task to the trash
// @Tags         Trash
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      204
// @Router       /tasks/{id}/trash [post]
func (h *TaskHandler) Trash(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.tasks.Trash(c.Request.Context(), taskID, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore godoc
// @Summary      Restore a task from the trash (admin)
// @Tags         Trash
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      204
// @Router       /tasks/{id}/restore [put]
func (h *TaskHandler) Restore(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.tasks.Restore(c.Request.Context(), taskID, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Purge godoc
// @Summary      Permanently delete a trashed task (admin)
// @Tags         Trash
// @Security     BearerAuth
// @Param        id  path  int  true  "Task ID"
// @Success      204
// @Router       /tasks/{id}/permanent [delete]
func (h *TaskHandler) Purge(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.tasks.Purge(c.Request.Context(), taskID, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// History godoc
// @Summary      Audit trail of a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path     int  true  "Task ID"
// @Success      200  {array}  HistoryResponse
// @Router       /tasks/{id}/history [get]
func (h *TaskHandler) History(c *gin.Context) {
	actorID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	entries, err := h.tasks.History(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newHistoryList(entries))
}
