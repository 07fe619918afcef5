package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
)

// AssignmentService derives and maintains the per-member view of
// tasks. The assignment table is a convenience projection; the
// canonical task status stays on the Task row.
type AssignmentService struct {
	assignRepo repository.AssignmentRepository
	memberRepo repository.MembershipRepository
	log        *zap.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignRepo repository.AssignmentRepository,
	memberRepo repository.MembershipRepository,
	log *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignRepo: assignRepo,
		memberRepo: memberRepo,
		log:        log,
	}
}

// Fanout creates one pending assignment per student member of the
// group, excluding the task's creator. A group with no eligible
// members is a valid no-op.
func (s *AssignmentService) Fanout(taskID, groupID, creatorID uint64) error {
	students, err := s.memberRepo.ListStudentsByGroup(groupID)
	if err != nil {
		return apperrors.Internal(err, "failed to list group students")
	}

	assignments := make([]models.Assignment, 0, len(students))
	for _, m := range students {
		if m.UserID == creatorID {
			continue
		}
		assignments = append(assignments, models.Assignment{
			TaskID: taskID,
			UserID: m.UserID,
			Status: models.TaskStatusPending,
		})
	}

	if len(assignments) == 0 {
		return nil
	}

	if err := s.assignRepo.BulkCreate(assignments); err != nil {
		return apperrors.Internal(err, "failed to create assignments")
	}

	s.log.Debug("task fanned out",
		zap.Uint64("task_id", taskID),
		zap.Uint64("group_id", groupID),
		zap.Int("assignments", len(assignments)))
	return nil
}

// SyncStatus mirrors a member's task status update into their
// assignment row. No row (creator, or joined after fanout) is a
// silent no-op: the assignment table is derived, not authoritative.
func (s *AssignmentService) SyncStatus(taskID, userID uint64, status models.TaskStatus) error {
	err := s.assignRepo.UpdateStatus(taskID, userID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Internal(err, "failed to sync assignment status")
	}
	return nil
}

// ListForTask returns a task's assignments for current group members.
func (s *AssignmentService) ListForTask(taskID, groupID uint64) ([]models.Assignment, error) {
	assignments, err := s.assignRepo.ListActiveByTask(taskID, groupID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list assignments")
	}
	return assignments, nil
}

// ListForUser returns all assignments held by a user.
func (s *AssignmentService) ListForUser(userID uint64) ([]models.Assignment, error) {
	assignments, err := s.assignRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list user assignments")
	}
	return assignments, nil
}
