package dto

import (
	"time"

	"github.com/yukikurage/group-collab-api/internal/models"
)

// AssignmentDTO represents one member's view of a task
type AssignmentDTO struct {
	User   UserDTO           `json:"user"`
	Status models.TaskStatus `json:"status"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date"`
	GroupID     uint64            `json:"group_id"`
	CreatorID   uint64            `json:"creator_id"`
	AssigneeID  *uint64           `json:"assignee_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	Assignments []AssignmentDTO   `json:"assignments,omitempty"`
}

// UserAssignmentDTO represents an assignment from the member's side,
// carrying the task it belongs to
type UserAssignmentDTO struct {
	TaskID uint64            `json:"task_id"`
	Status models.TaskStatus `json:"status"`
	Task   *TaskDTO          `json:"task,omitempty"`
}

// InvitationDTO represents an invitation in API responses
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	GroupID        uint64                  `json:"group_id"`
	GroupName      string                  `json:"group_name,omitempty"`
	TeacherID      uint64                  `json:"teacher_id"`
	InvitedBy      *UserDTO                `json:"invited_by,omitempty"`
	ProjectDetails string                  `json:"project_details"`
	Status         models.InvitationStatus `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		GroupID:     task.GroupID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	if len(task.Assignments) > 0 {
		dto.Assignments = make([]AssignmentDTO, len(task.Assignments))
		for i, assignment := range task.Assignments {
			dto.Assignments[i] = AssignmentDTO{
				User:   ToUserDTO(assignment.User),
				Status: assignment.Status,
			}
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToAssignmentDTOs converts a task's assignment rows
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, assignment := range assignments {
		dtos[i] = AssignmentDTO{
			User:   ToUserDTO(assignment.User),
			Status: assignment.Status,
		}
	}
	return dtos
}

// ToUserAssignmentDTOs converts a user's assignment rows
func ToUserAssignmentDTOs(assignments []models.Assignment) []UserAssignmentDTO {
	dtos := make([]UserAssignmentDTO, len(assignments))
	for i, assignment := range assignments {
		dtos[i] = UserAssignmentDTO{
			TaskID: assignment.TaskID,
			Status: assignment.Status,
		}
		if assignment.Task.ID != 0 {
			task := ToTaskDTO(assignment.Task)
			dtos[i].Task = &task
		}
	}
	return dtos
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(inv models.Invitation) InvitationDTO {
	dto := InvitationDTO{
		ID:             inv.ID,
		GroupID:        inv.GroupID,
		TeacherID:      inv.TeacherID,
		ProjectDetails: inv.ProjectDetails,
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt,
	}

	if inv.Group.ID != 0 {
		dto.GroupName = inv.Group.Name
	}
	if inv.InvitedBy.ID != 0 {
		invitedBy := ToUserDTO(inv.InvitedBy)
		dto.InvitedBy = &invitedBy
	}

	return dto
}

// ToInvitationDTOs converts a slice of invitations
func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, inv := range invitations {
		dtos[i] = ToInvitationDTO(inv)
	}
	return dtos
}
