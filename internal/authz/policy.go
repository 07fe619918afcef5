package authz

import "github.com/yukikurage/group-collab-api/internal/models"

// Action is a mutation or privileged read gated by policy.
type Action string

const (
	ActionGroupUpdate   Action = "group.update"
	ActionGroupDelete   Action = "group.delete"
	ActionMemberRemove  Action = "member.remove"
	ActionTaskCreate    Action = "task.create"
	ActionTaskUpdate    Action = "task.update"
	ActionTaskDelete    Action = "task.delete"
	ActionTaskSetStatus Action = "task.set_status"
	ActionTaskListAll   Action = "task.list_all"
	ActionInviteTeacher Action = "invitation.create"
)

// Relationship describes how the caller relates to the resource the
// action targets.
type Relationship int

const (
	RelNone    Relationship = iota // no tie to the resource
	RelMember                      // current member of the owning group
	RelCreator                     // creator of the resource
)

// CanPerform is the single authorization choke point. Every mutation
// in the services consults it exactly once, so role-based branching
// lives here instead of being scattered through handlers.
func CanPerform(action Action, role models.UserRole, rel Relationship) bool {
	if role == models.RoleAdmin {
		return true
	}

	switch action {
	case ActionGroupUpdate, ActionGroupDelete, ActionMemberRemove,
		ActionTaskUpdate, ActionTaskDelete:
		return rel == RelCreator
	case ActionTaskCreate, ActionTaskSetStatus:
		return rel == RelMember || rel == RelCreator
	case ActionInviteTeacher:
		// Only a student group creator may invite a teacher.
		return rel == RelCreator && role == models.RoleStudent
	case ActionTaskListAll:
		return false
	}

	return false
}
