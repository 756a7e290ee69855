// Package policy decides whether an actor may perform an action on a task.
//
// CanPerform is the single authorization decision for every task mutation and
// read. It is pure: callers load the task snapshot and its assignee set and
// pass them in.
package policy

import (
	"fmt"

	"tasktracker/internal/model"
)

// ActionKind enumerates what an actor attempts to do to a task.
type ActionKind int

const (
	ActionView ActionKind = iota + 1
	ActionEditFields
	ActionSetStatus
	ActionReassign
	ActionComment
	ActionTrash
	ActionRestore
	ActionPurge
)

var actionNames = map[ActionKind]string{
	ActionView:       "view",
	ActionEditFields: "edit-fields",
	ActionSetStatus:  "set-status",
	ActionReassign:   "reassign",
	ActionComment:    "comment",
	ActionTrash:      "trash",
	ActionRestore:    "restore",
	ActionPurge:      "purge",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is a tagged action. Target is set only for ActionSetStatus.
type Action struct {
	Kind   ActionKind
	Target model.TaskStatus
}

func (a Action) String() string {
	if a.Kind == ActionSetStatus {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Target)
	}
	return a.Kind.String()
}

var (
	View       = Action{Kind: ActionView}
	EditFields = Action{Kind: ActionEditFields}
	Reassign   = Action{Kind: ActionReassign}
	CommentOn  = Action{Kind: ActionComment}
	Trash      = Action{Kind: ActionTrash}
	Restore    = Action{Kind: ActionRestore}
	Purge      = Action{Kind: ActionPurge}
)

// SetStatus is the action of moving a task to target.
func SetStatus(target model.TaskStatus) Action {
	return Action{Kind: ActionSetStatus, Target: target}
}

// Actor is the authenticated user attempting an operation.
type Actor struct {
	ID           uint64
	Role         model.Role
	DepartmentID *uint64
}

// ActorFromUser builds an Actor from a user row.
func ActorFromUser(u *model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Reason explains a denial.
type Reason string

const (
	ReasonCompletionRequiresAdmin Reason = "completion_requires_admin"
	ReasonNotRelated              Reason = "not_assignee_creator_or_department"
	ReasonNotCreatorOrAssignee    Reason = "not_creator_or_assignee"
	ReasonNotAssignee             Reason = "not_assignee"
	ReasonStatusNotAllowed        Reason = "status_not_allowed_for_role"
	ReasonNotCreator              Reason = "not_creator"
	ReasonAdminOnly               Reason = "admin_only"
	ReasonNotCommentAuthor        Reason = "not_comment_author"
	ReasonInsufficientRole        Reason = "insufficient_role"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// CanPerform evaluates the rules in precedence order; the first matching rule
// decides and anything unmatched is denied with ReasonInsufficientRole.
func CanPerform(actor Actor, action Action, task *model.Task, assignees []uint64) Decision {
	if task == nil {
		return deny(ReasonInsufficientRole)
	}

	// Admins may do anything. Purge additionally needs the task in the trash,
	// which is a lifecycle precondition checked by the caller.
	if actor.IsAdmin() {
		return allow()
	}

	if action.Kind == ActionSetStatus && action.Target == model.StatusCompleted {
		return deny(ReasonCompletionRequiresAdmin)
	}

	rel := relationOf(actor, task, assignees)

	switch action.Kind {
	case ActionView, ActionComment:
		if actor.Role == model.RoleManager {
			return allow()
		}
		if actor.Role == model.RoleEmployee {
			if rel.assignee || rel.creator || rel.sameDepartment {
				return allow()
			}
			return deny(ReasonNotRelated)
		}

	// Managers get no more mutation rights than employees.
	case ActionEditFields:
		if isStaff(actor) {
			if rel.creator || rel.assignee {
				return allow()
			}
			return deny(ReasonNotCreatorOrAssignee)
		}

	case ActionSetStatus:
		if isStaff(actor) {
			if action.Target != model.StatusInProgress && action.Target != model.StatusAwaitingApproval {
				return deny(ReasonStatusNotAllowed)
			}
			if !rel.assignee {
				return deny(ReasonNotAssignee)
			}
			return allow()
		}

	case ActionReassign, ActionTrash:
		if rel.creator {
			return allow()
		}
		return deny(ReasonNotCreator)

	case ActionRestore, ActionPurge:
		return deny(ReasonAdminOnly)
	}

	return deny(ReasonInsufficientRole)
}

// CanDeleteComment allows the comment author and admins.
func CanDeleteComment(actor Actor, comment *model.Comment) Decision {
	if actor.IsAdmin() || comment.UserID == actor.ID {
		return allow()
	}
	return deny(ReasonNotCommentAuthor)
}

// CanReviewQueues gates the trash and pending-approval listings.
func CanReviewQueues(actor Actor) Decision {
	if actor.IsAdmin() {
		return allow()
	}
	return deny(ReasonAdminOnly)
}

// VisibilityFor returns the listing restriction for actor, or nil when the
// actor may see every active task.
func VisibilityFor(actor Actor) *model.Visibility {
	if actor.Role == model.RoleEmployee {
		return &model.Visibility{UserID: actor.ID, DepartmentID: actor.DepartmentID}
	}
	if actor.IsAdmin() || actor.Role == model.RoleManager {
		return nil
	}
	// Unknown roles see only what they are personally attached to.
	return &model.Visibility{UserID: actor.ID}
}

type relation struct {
	assignee       bool
	creator        bool
	sameDepartment bool
}

func relationOf(actor Actor, task *model.Task, assignees []uint64) relation {
	r := relation{creator: task.CreatedBy == actor.ID}
	for _, id := range assignees {
		if id == actor.ID {
			r.assignee = true
			break
		}
	}
	if actor.DepartmentID != nil && task.DepartmentID != nil {
		r.sameDepartment = *actor.DepartmentID == *task.DepartmentID
	}
	return r
}

func isStaff(actor Actor) bool {
	return actor.Role == model.RoleEmployee || actor.Role == model.RoleManager
}
