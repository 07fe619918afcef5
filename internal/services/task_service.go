package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/group-collab-api/internal/authz"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
)

// TaskService owns the canonical task records of a group.
type TaskService struct {
	taskRepo   repository.TaskRepository
	memberRepo repository.MembershipRepository
	assignSvc  *AssignmentService
	log        *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	memberRepo repository.MembershipRepository,
	assignSvc *AssignmentService,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		memberRepo: memberRepo,
		assignSvc:  assignSvc,
		log:        log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
	GroupID     uint64
	CreatorID   uint64
	AssigneeID  *uint64
}

// CreateTask creates a task and synchronously fans out assignments to
// the group's students. Fanout failure is logged but does not undo
// the task: a task with zero assignments is still a valid task.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.Validation("title is required")
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		parsed, ok := models.ParseTaskStatus(input.Status)
		if !ok {
			return nil, apperrors.Validation("invalid task status %q", input.Status)
		}
		status = parsed
	}

	if err := s.ensureGroupMember(input.GroupID, input.CreatorID); err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if _, err := s.memberRepo.Find(input.GroupID, *input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("assignee is not a member of the group")
			}
			return nil, apperrors.Internal(err, "failed to verify assignee")
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		GroupID:     input.GroupID,
		CreatorID:   input.CreatorID,
		AssigneeID:  input.AssigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, apperrors.Internal(err, "failed to create task")
	}

	if err := s.assignSvc.Fanout(task.ID, input.GroupID, input.CreatorID); err != nil {
		s.log.Error("task fanout failed",
			zap.Uint64("task_id", task.ID),
			zap.Uint64("group_id", input.GroupID),
			zap.Error(err))
	}

	created, err := s.taskRepo.FindByID(task.ID, "Creator", "Assignments", "Assignments.User")
	if err != nil {
		return nil, apperrors.Internal(err, "failed to reload task")
	}
	return created, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Group", "Assignments", "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal(err, "failed to find task")
	}
	return task, nil
}

// UpdateTaskInput carries the full mutable field set of a task.
// Partial updates are not supported; every field must be present.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
	GroupID     uint64
	ActorID     uint64
	ActorRole   models.UserRole
}

// UpdateTask rewrites a task's mutable fields. Only the creator or an
// admin may update.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.Validation("title is required")
	}
	status, ok := models.ParseTaskStatus(input.Status)
	if !ok {
		return nil, apperrors.Validation("invalid task status %q", input.Status)
	}
	if input.GroupID == 0 {
		return nil, apperrors.Validation("group_id is required")
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal(err, "failed to find task")
	}

	if !authz.CanPerform(authz.ActionTaskUpdate, input.ActorRole, s.relationTo(task, input.ActorID)) {
		return nil, apperrors.Forbidden("only the task creator or an admin can update this task")
	}

	if input.GroupID != task.GroupID {
		return nil, apperrors.Validation("a task cannot move between groups")
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = status
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.Internal(err, "failed to update task")
	}

	updated, err := s.taskRepo.FindByID(task.ID, "Creator", "Assignments", "Assignments.User")
	if err != nil {
		return nil, apperrors.Internal(err, "failed to reload task")
	}
	return updated, nil
}

// UpdateStatus records one member's view of the task's progress. Any
// current group member may call it; the new status is mirrored into
// the member's own assignment row when one exists.
func (s *TaskService) UpdateStatus(taskID uint64, rawStatus string, actorID uint64) (*models.Task, error) {
	status, ok := models.ParseTaskStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation("invalid task status %q", rawStatus)
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal(err, "failed to find task")
	}

	if err := s.ensureGroupMember(task.GroupID, actorID); err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.Internal(err, "failed to update task status")
	}

	if err := s.assignSvc.SyncStatus(taskID, actorID, status); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask deletes a task if the actor is the creator or an admin.
func (s *TaskService) DeleteTask(taskID, actorID uint64, actorRole models.UserRole) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("task not found")
		}
		return apperrors.Internal(err, "failed to find task")
	}

	if !authz.CanPerform(authz.ActionTaskDelete, actorRole, s.relationTo(task, actorID)) {
		return apperrors.Forbidden("only the task creator or an admin can delete this task")
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return apperrors.Internal(err, "failed to delete task")
	}

	return nil
}

// ListByGroup returns the group's tasks visible to the requester:
// group-wide tasks plus tasks targeted at them.
func (s *TaskService) ListByGroup(groupID, requesterID uint64, page, pageSize int) ([]models.Task, int64, error) {
	if err := s.ensureGroupMember(groupID, requesterID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		GroupID:  &groupID,
		ViewerID: &requesterID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err, "failed to list tasks")
	}
	return tasks, total, nil
}

// ListByUser returns tasks the user created or holds an assignment on.
func (s *TaskService) ListByUser(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListForUser(userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list user tasks")
	}
	return tasks, nil
}

// ListAll returns every task. Admin only.
func (s *TaskService) ListAll(actorRole models.UserRole, page, pageSize int) ([]models.Task, int64, error) {
	if !authz.CanPerform(authz.ActionTaskListAll, actorRole, authz.RelNone) {
		return nil, 0, apperrors.Forbidden("only admins can list all tasks")
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err, "failed to list tasks")
	}
	return tasks, total, nil
}

func (s *TaskService) ensureGroupMember(groupID, userID uint64) error {
	if _, err := s.memberRepo.Find(groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Forbidden("user is not a member of the group")
		}
		return apperrors.Internal(err, "failed to verify group membership")
	}
	return nil
}

func (s *TaskService) relationTo(task *models.Task, actorID uint64) authz.Relationship {
	if task.CreatorID == actorID {
		return authz.RelCreator
	}
	if _, err := s.memberRepo.Find(task.GroupID, actorID); err == nil {
		return authz.RelMember
	}
	return authz.RelNone
}
