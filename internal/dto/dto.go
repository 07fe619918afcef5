package dto

import (
	"time"

	"github.com/yukikurage/group-collab-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID   uint64          `json:"id"`
	Name string          `json:"name"`
	Role models.UserRole `json:"role"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   uint64 `json:"creator_id"`
	JoinCode    string `json:"join_code,omitempty"`
}

// GroupMemberDTO represents a member in a group
type GroupMemberDTO struct {
	User     UserDTO         `json:"user"`
	Role     models.UserRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// GroupWithRoleDTO represents a group with the user's role at join
type GroupWithRoleDTO struct {
	GroupDTO
	Role models.UserRole `json:"role"`
}

// GroupDetailDTO represents detailed group information
type GroupDetailDTO struct {
	GroupDTO
	Members []GroupMemberDTO `json:"members"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	}
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group, includeJoinCode bool) GroupDTO {
	dto := GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatorID:   group.CreatorID,
	}
	if includeJoinCode {
		dto.JoinCode = group.JoinCode
	}
	return dto
}

// ToGroupMemberDTO converts a member to DTO
func ToGroupMemberDTO(member models.GroupMember) GroupMemberDTO {
	return GroupMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToGroupWithRoleDTO converts a membership to a group DTO with role
func ToGroupWithRoleDTO(member models.GroupMember) GroupWithRoleDTO {
	return GroupWithRoleDTO{
		GroupDTO: ToGroupDTO(member.Group, false),
		Role:     member.Role,
	}
}

// ToGroupDetailDTO converts a group with members to a detailed DTO
func ToGroupDetailDTO(group models.Group, members []models.GroupMember, includeJoinCode bool) GroupDetailDTO {
	memberDTOs := make([]GroupMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToGroupMemberDTO(member)
	}

	return GroupDetailDTO{
		GroupDTO: ToGroupDTO(group, includeJoinCode),
		Members:  memberDTOs,
	}
}
