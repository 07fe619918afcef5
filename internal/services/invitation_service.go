package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/group-collab-api/internal/authz"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
)

// InvitationService runs the teacher-invitation state machine:
// pending, then exactly one of approved or rejected, both terminal.
type InvitationService struct {
	invRepo    repository.InvitationRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	memberRepo repository.MembershipRepository
	log        *zap.Logger
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(
	invRepo repository.InvitationRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	memberRepo repository.MembershipRepository,
	log *zap.Logger,
) *InvitationService {
	return &InvitationService{
		invRepo:    invRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		memberRepo: memberRepo,
		log:        log,
	}
}

// CreateInvitationInput represents input for inviting a teacher.
// Group and teacher are addressed by name as a convenience; names are
// not unique, so resolution takes the first match.
type CreateInvitationInput struct {
	GroupName      string
	TeacherName    string
	ProjectDetails string
	InvitedByID    uint64
	InviterRole    models.UserRole
}

// CreateInvitation invites a teacher into a group. Only the group's
// student creator or an admin may invite, and at most one pending
// invitation may exist per (group, teacher) pair.
func (s *InvitationService) CreateInvitation(input CreateInvitationInput) (*models.Invitation, error) {
	if strings.TrimSpace(input.GroupName) == "" || strings.TrimSpace(input.TeacherName) == "" {
		return nil, apperrors.Validation("group name and teacher name are required")
	}

	group, err := s.groupRepo.FindByName(input.GroupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("group %q not found", input.GroupName)
		}
		return nil, apperrors.Internal(err, "failed to resolve group")
	}

	teacher, err := s.userRepo.FindByName(input.TeacherName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("teacher %q not found", input.TeacherName)
		}
		return nil, apperrors.Internal(err, "failed to resolve teacher")
	}
	if teacher.Role != models.RoleTeacher || teacher.ID == input.InvitedByID {
		return nil, apperrors.NotFound("teacher %q not found", input.TeacherName)
	}

	rel := authz.RelNone
	if group.CreatorID == input.InvitedByID {
		rel = authz.RelCreator
	}
	if !authz.CanPerform(authz.ActionInviteTeacher, input.InviterRole, rel) {
		return nil, apperrors.Forbidden("only the group creator or an admin can invite teachers")
	}

	if _, err := s.memberRepo.Find(group.ID, teacher.ID); err == nil {
		return nil, apperrors.Conflict("teacher is already a member of this group")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err, "failed to check membership")
	}

	// One outstanding invite per (group, teacher); resolved ones do
	// not block a fresh invite.
	if _, err := s.invRepo.FindPending(group.ID, teacher.ID); err == nil {
		return nil, apperrors.Conflict("a pending invitation for this teacher already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err, "failed to check pending invitations")
	}

	inv := &models.Invitation{
		GroupID:        group.ID,
		TeacherID:      teacher.ID,
		InvitedByID:    input.InvitedByID,
		ProjectDetails: input.ProjectDetails,
		Status:         models.InvitationPending,
	}
	if err := s.invRepo.Create(inv); err != nil {
		return nil, apperrors.Internal(err, "failed to create invitation")
	}

	s.log.Info("teacher invited",
		zap.Uint64("invitation_id", inv.ID),
		zap.Uint64("group_id", group.ID),
		zap.Uint64("teacher_id", teacher.ID))
	return inv, nil
}

// ListForTeacher returns the teacher's pending invitation inbox.
func (s *InvitationService) ListForTeacher(teacherID uint64) ([]models.Invitation, error) {
	invitations, err := s.invRepo.ListPendingForTeacher(teacherID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list invitations")
	}
	return invitations, nil
}

// Respond resolves a pending invitation. Approval atomically creates
// the teacher's membership in the same transaction; a second response
// to the same invitation is a conflict, never a double-apply.
func (s *InvitationService) Respond(invitationID uint64, decision string, actorID uint64, actorRole models.UserRole) (*models.Invitation, error) {
	var status models.InvitationStatus
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case string(models.InvitationApproved):
		status = models.InvitationApproved
	case string(models.InvitationRejected):
		status = models.InvitationRejected
	default:
		return nil, apperrors.Validation("decision must be %q or %q",
			models.InvitationApproved, models.InvitationRejected)
	}

	inv, err := s.invRepo.FindByID(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("invitation not found")
		}
		return nil, apperrors.Internal(err, "failed to find invitation")
	}

	if inv.TeacherID != actorID && actorRole != models.RoleAdmin {
		return nil, apperrors.Forbidden("only the invited teacher can respond to this invitation")
	}

	resolved, err := s.invRepo.Respond(invitationID, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvitationProcessed):
			return nil, apperrors.Conflict("invitation already processed")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.NotFound("invitation not found")
		default:
			return nil, apperrors.Internal(err, "failed to respond to invitation")
		}
	}

	s.log.Info("invitation resolved",
		zap.Uint64("invitation_id", invitationID),
		zap.String("status", string(status)))
	return resolved, nil
}
