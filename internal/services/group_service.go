package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/group-collab-api/internal/authz"
	"github.com/yukikurage/group-collab-api/internal/constants"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
	"github.com/yukikurage/group-collab-api/internal/utils"
)

// now is the clock for join timestamps; tests may override it.
var now = time.Now

// GroupService owns group metadata and membership mutations.
type GroupService struct {
	groupRepo  repository.GroupRepository
	memberRepo repository.MembershipRepository
	userRepo   repository.UserRepository
	log        *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo repository.GroupRepository,
	memberRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	log *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		log:        log,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name        string
	Description string
	CreatorID   uint64
	CreatorRole models.UserRole
}

// CreateGroup creates a group and adds the creator as its first
// member. The join code is generated with a check-then-insert retry
// loop: collisions are treated as expected, not exceptional.
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("group name cannot be empty")
	}

	group := &models.Group{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   input.CreatorID,
	}

	var created bool
	for attempt := 0; attempt < constants.MaxJoinCodeAttempts; attempt++ {
		code, err := utils.GenerateJoinCode()
		if err != nil {
			return nil, apperrors.Internal(err, "failed to generate join code")
		}

		if _, err := s.groupRepo.FindByJoinCode(code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Internal(err, "failed to check join code")
		}

		group.JoinCode = code
		err = s.groupRepo.Create(group)
		if err == nil {
			created = true
			break
		}
		// The check-then-insert window is not atomic; a concurrent
		// insert of the same code shows up here as a duplicate key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, apperrors.Internal(err, "failed to create group")
	}
	if !created {
		return nil, apperrors.Conflict("could not allocate a unique join code")
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   input.CreatorID,
		Role:     input.CreatorRole,
		JoinedAt: now(),
	}
	if err := s.memberRepo.Add(member); err != nil {
		return nil, apperrors.Internal(err, "failed to add creator to group")
	}

	return group, nil
}

// GetGroup returns a group and all of its members.
func (s *GroupService) GetGroup(groupID uint64) (*models.Group, []models.GroupMember, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("group not found")
		}
		return nil, nil, apperrors.Internal(err, "failed to find group")
	}

	members, err := s.memberRepo.ListByGroup(groupID)
	if err != nil {
		return nil, nil, apperrors.Internal(err, "failed to list group members")
	}

	return group, members, nil
}

// ListGroupsForUser returns the memberships of one user, group preloaded.
func (s *GroupService) ListGroupsForUser(userID uint64) ([]models.GroupMember, error) {
	memberships, err := s.memberRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list groups")
	}
	return memberships, nil
}

// UpdateGroupInput carries the mutable group fields.
type UpdateGroupInput struct {
	Name        string
	Description string
	ActorID     uint64
	ActorRole   models.UserRole
}

// UpdateGroup updates a group's name and description.
func (s *GroupService) UpdateGroup(groupID uint64, input UpdateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("group name cannot be empty")
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, apperrors.Internal(err, "failed to find group")
	}

	if !authz.CanPerform(authz.ActionGroupUpdate, input.ActorRole, s.relationTo(group, input.ActorID)) {
		return nil, apperrors.Forbidden("only the group creator or an admin can update this group")
	}

	group.Name = input.Name
	group.Description = input.Description
	if err := s.groupRepo.Update(group); err != nil {
		return nil, apperrors.Internal(err, "failed to update group")
	}

	return group, nil
}

// DeleteGroup removes a group with everything bound to it.
func (s *GroupService) DeleteGroup(groupID, actorID uint64, actorRole models.UserRole) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("group not found")
		}
		return apperrors.Internal(err, "failed to find group")
	}

	if !authz.CanPerform(authz.ActionGroupDelete, actorRole, s.relationTo(group, actorID)) {
		return apperrors.Forbidden("only the group creator or an admin can delete this group")
	}

	if err := s.groupRepo.Delete(groupID); err != nil {
		return apperrors.Internal(err, "failed to delete group")
	}

	s.log.Info("group deleted",
		zap.Uint64("group_id", groupID),
		zap.Uint64("actor_id", actorID))
	return nil
}

// RegenerateJoinCode replaces the group's join code, invalidating the
// old one. Only the creator or an admin may rotate it.
func (s *GroupService) RegenerateJoinCode(groupID, actorID uint64, actorRole models.UserRole) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, apperrors.Internal(err, "failed to find group")
	}

	if !authz.CanPerform(authz.ActionGroupUpdate, actorRole, s.relationTo(group, actorID)) {
		return nil, apperrors.Forbidden("only the group creator or an admin can regenerate the join code")
	}

	for attempt := 0; attempt < constants.MaxJoinCodeAttempts; attempt++ {
		code, err := utils.GenerateJoinCode()
		if err != nil {
			return nil, apperrors.Internal(err, "failed to generate join code")
		}

		if _, err := s.groupRepo.FindByJoinCode(code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Internal(err, "failed to check join code")
		}

		group.JoinCode = code
		err = s.groupRepo.Update(group)
		if err == nil {
			return group, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, apperrors.Internal(err, "failed to update join code")
	}

	return nil, apperrors.Conflict("could not allocate a unique join code")
}

// JoinByCode adds a user to the group behind a join code. The role
// recorded on the membership is the user's role at join time.
func (s *GroupService) JoinByCode(userID uint64, userRole models.UserRole, code string) (*models.Group, error) {
	group, err := s.groupRepo.FindByJoinCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("invalid join code")
		}
		return nil, apperrors.Internal(err, "failed to find group by join code")
	}

	if _, err := s.memberRepo.Find(group.ID, userID); err == nil {
		return nil, apperrors.Conflict("user is already a member of this group")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err, "failed to verify membership")
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     userRole,
		JoinedAt: now(),
	}
	if err := s.memberRepo.Add(member); err != nil {
		return nil, apperrors.Internal(err, "failed to add member to group")
	}

	return group, nil
}

// IsMember reports whether the user currently belongs to the group.
func (s *GroupService) IsMember(groupID, userID uint64) (bool, error) {
	_, err := s.memberRepo.Find(groupID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, apperrors.Internal(err, "failed to verify membership")
}

// RemoveMember removes a member from the group. The member's existing
// assignment rows are kept as historical record.
func (s *GroupService) RemoveMember(groupID, actorID uint64, actorRole models.UserRole, targetID uint64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("group not found")
		}
		return apperrors.Internal(err, "failed to find group")
	}

	// Leaving yourself is always allowed; removing someone else goes
	// through the policy.
	if targetID != actorID {
		if !authz.CanPerform(authz.ActionMemberRemove, actorRole, s.relationTo(group, actorID)) {
			return apperrors.Forbidden("only the group creator or an admin can remove members")
		}
	}

	if err := s.memberRepo.Remove(groupID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("group member not found")
		}
		return apperrors.Internal(err, "failed to remove member")
	}

	return nil
}

func (s *GroupService) relationTo(group *models.Group, actorID uint64) authz.Relationship {
	if group.CreatorID == actorID {
		return authz.RelCreator
	}
	if _, err := s.memberRepo.Find(group.ID, actorID); err == nil {
		return authz.RelMember
	}
	return authz.RelNone
}
