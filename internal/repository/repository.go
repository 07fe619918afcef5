package repository

import (
	"errors"

	"github.com/yukikurage/group-collab-api/internal/models"
)

// ErrInvitationProcessed is returned by Respond when the invitation
// has already left the pending state.
var ErrInvitationProcessed = errors.New("invitation already processed")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByName finds a user by display name. Names are not
	// guaranteed unique; the first match by ID wins.
	FindByName(name string) (*models.User, error)
}

// MembershipRepository is the authoritative store of (group, user)
// membership rows. All components reflect join/leave through it.
type MembershipRepository interface {
	// Add inserts a membership row
	Add(member *models.GroupMember) error

	// Remove deletes a membership row; gorm.ErrRecordNotFound when absent
	Remove(groupID, userID uint64) error

	// Find finds a specific membership row
	Find(groupID, userID uint64) (*models.GroupMember, error)

	// ListByGroup lists all members of a group
	ListByGroup(groupID uint64) ([]models.GroupMember, error)

	// ListByUser lists all groups a user is a member of
	ListByUser(userID uint64) ([]models.GroupMember, error)

	// ListStudentsByGroup lists members whose role at join was student
	ListStudentsByGroup(groupID uint64) ([]models.GroupMember, error)
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// Create creates a new group
	Create(group *models.Group) error

	// FindByID finds a group by ID
	FindByID(id uint64) (*models.Group, error)

	// FindByJoinCode finds a group by its join code
	FindByJoinCode(code string) (*models.Group, error)

	// FindByName finds a group by name, first match by ID
	FindByName(name string) (*models.Group, error)

	// Update updates a group
	Update(group *models.Group) error

	// Delete removes a group and everything bound to it in one
	// transaction: memberships, tasks, assignments, invitations.
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	GroupID   *uint64
	CreatorID *uint64
	Status    *models.TaskStatus

	// ViewerID enables the member visibility rule: tasks with a
	// non-null assignee are hidden unless assigned to the viewer.
	ViewerID *uint64

	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListForUser lists tasks the user created or holds an assignment on
	ListForUser(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its assignments
	Delete(id uint64) error
}

// AssignmentRepository owns the derived per-member assignment rows.
type AssignmentRepository interface {
	// BulkCreate inserts the fanout rows for a task
	BulkCreate(assignments []models.Assignment) error

	// Find finds a specific assignment
	Find(taskID, userID uint64) (*models.Assignment, error)

	// UpdateStatus overwrites the status of one assignment
	UpdateStatus(taskID, userID uint64, status models.TaskStatus) error

	// ListActiveByTask lists a task's assignments restricted to
	// current group members. Rows for users who have left the group
	// are retained but filtered out here.
	ListActiveByTask(taskID, groupID uint64) ([]models.Assignment, error)

	// ListByUser lists all assignments held by a user
	ListByUser(userID uint64) ([]models.Assignment, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(inv *models.Invitation) error

	// FindByID finds an invitation by ID
	FindByID(id uint64) (*models.Invitation, error)

	// FindPending finds the pending invitation for a (group, teacher)
	// pair, if any
	FindPending(groupID, teacherID uint64) (*models.Invitation, error)

	// ListPendingForTeacher lists a teacher's pending invitations
	ListPendingForTeacher(teacherID uint64) ([]models.Invitation, error)

	// Respond transitions a pending invitation to the given terminal
	// status. On approval the teacher's membership row is created in
	// the same transaction; any failure rolls the whole thing back.
	// Returns ErrInvitationProcessed if the invitation is not pending.
	Respond(id uint64, status models.InvitationStatus) (*models.Invitation, error)
}
