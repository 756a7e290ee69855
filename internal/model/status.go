package model

import (
	"errors"
	"fmt"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending          TaskStatus = "pending"
	StatusInProgress       TaskStatus = "in_progress"
	StatusAwaitingApproval TaskStatus = "awaiting_approval"
	StatusCompleted        TaskStatus = "completed"
	StatusTrashed          TaskStatus = "trashed"
)

var ErrUnknownStatus = errors.New("unknown task status")

// transitions lists the targets reachable through a status change. Trashed is
// entered and left only through the trash lifecycle, and completed has no
// outgoing edges.
var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:          {StatusInProgress},
	StatusInProgress:       {StatusAwaitingApproval},
	StatusAwaitingApproval: {StatusInProgress, StatusCompleted},
}

// ParseTaskStatus converts s into a TaskStatus, rejecting anything outside the
// closed set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusAwaitingApproval, StatusCompleted, StatusTrashed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine has an edge from s to target.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var ErrUnknownPriority = errors.New("unknown task priority")

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
