package handler

import (
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

const dateLayout = "2006-01-02"

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	DueDate      string   `json:"due_date" binding:"required,datetime=2006-01-02"`
	Priority     string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DepartmentID *uint64  `json:"department_id" binding:"omitempty,min=1"`
	AssigneeIDs  []uint64 `json:"assignee_ids" binding:"omitempty,dive,min=1"`
}

func (r CreateTaskRequest) toModel() model.NewTask {
	due, _ := time.Parse(dateLayout, r.DueDate)
	return model.NewTask{
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      due,
		Priority:     model.Priority(r.Priority),
		DepartmentID: r.DepartmentID,
		AssigneeIDs:  r.AssigneeIDs,
	}
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Absent fields are kept.
type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Priority     *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DepartmentID *uint64 `json:"department_id" binding:"omitempty,min=1"`
}

func (r UpdateTaskRequest) toModel() model.TaskFields {
	fields := model.TaskFields{
		Title:        r.Title,
		Description:  r.Description,
		DepartmentID: r.DepartmentID,
	}
	if r.DueDate != nil {
		due, _ := time.Parse(dateLayout, *r.DueDate)
		fields.DueDate = &due
	}
	if r.Priority != nil {
		p := model.Priority(*r.Priority)
		fields.Priority = &p
	}
	return fields
}

type StatusRequest struct {
	Status   string  `json:"status" binding:"required"`
	Feedback *string `json:"feedback"`
}

type RejectRequest struct {
	Feedback *string `json:"feedback"`
}

// AssignmentsRequest replaces the assignee set. An empty list unassigns everyone.
type AssignmentsRequest struct {
	UserIDs []uint64 `json:"user_ids" binding:"required,dive,min=1"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// TaskQuery holds the filters of GET /tasks.
type TaskQuery struct {
	Status       string  `form:"status" binding:"omitempty,oneof=pending in_progress awaiting_approval completed"`
	Priority     string  `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DepartmentID *uint64 `form:"department_id"`
	AssigneeID   *uint64 `form:"assignee_id"`
}

func (q TaskQuery) toFilter() model.TaskFilter {
	filter := model.TaskFilter{
		DepartmentID: q.DepartmentID,
		AssigneeID:   q.AssigneeID,
	}
	if q.Status != "" {
		s := model.TaskStatus(q.Status)
		filter.Status = &s
	}
	if q.Priority != "" {
		p := model.Priority(q.Priority)
		filter.Priority = &p
	}
	return filter
}

type TaskResponse struct {
	ID           uint64     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      string     `json:"due_date"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	DepartmentID *uint64    `json:"department_id,omitempty"`
	CreatedBy    uint64     `json:"created_by"`
	Feedback     *string    `json:"feedback,omitempty"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	Version      int64      `json:"version"`
	AssigneeIDs  []uint64   `json:"assignee_ids"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func newTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      time.Time(t.DueDate).Format(dateLayout),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		DepartmentID: t.DepartmentID,
		CreatedBy:    t.CreatedBy,
		Feedback:     t.Feedback,
		IsDeleted:    t.IsDeleted,
		DeletedAt:    t.DeletedAt,
		Version:      t.Version,
		AssigneeIDs:  t.AssigneeIDs(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func newTaskList(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}

type AssignmentResponse struct {
	UserID     uint64    `json:"user_id"`
	AssignedBy uint64    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

func newAssignmentList(rows []model.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, AssignmentResponse{UserID: a.UserID, AssignedBy: a.AssignedBy, AssignedAt: a.AssignedAt})
	}
	return out
}

type HistoryResponse struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

func newHistoryList(entries []model.HistoryEntry) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, HistoryResponse{ID: h.ID, UserID: h.UserID, Action: h.Action, CreatedAt: h.CreatedAt})
	}
	return out
}

type CommentResponse struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Comment   string    `json:"comment"`
	IsOwn     bool      `json:"is_own"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(c *model.Comment, isOwn bool) CommentResponse {
	return CommentResponse{ID: c.ID, UserID: c.UserID, Comment: c.Body, IsOwn: isOwn, CreatedAt: c.CreatedAt}
}

func newCommentList(views []service.CommentView) []CommentResponse {
	out := make([]CommentResponse, 0, len(views))
	for i := range views {
		out = append(out, newCommentResponse(&views[i].Comment, views[i].IsOwn))
	}
	return out
}
