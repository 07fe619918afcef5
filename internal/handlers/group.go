package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/group-collab-api/internal/dto"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/middleware"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup creates a new group
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	type CreateGroupRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	group, err := h.groupService.CreateGroup(services.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		CreatorRole: middleware.GetUserRole(c),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group, true))
}

// ListGroups returns all groups the user is a member of
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.groupService.ListGroupsForUser(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	groups := make([]dto.GroupWithRoleDTO, len(memberships))
	for i, m := range memberships {
		groups[i] = dto.ToGroupWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup returns group details with members
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	userID, _ := middleware.GetUserID(c)

	_, members, err := h.groupService.GetGroup(group.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	// Join code is only shown to the creator and admins.
	includeCode := group.CreatorID == userID || middleware.GetUserRole(c) == models.RoleAdmin

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(group, members, includeCode))
}

// UpdateGroup updates group name and description
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	type UpdateGroupRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	updated, err := h.groupService.UpdateGroup(group.ID, services.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		ActorID:     userID,
		ActorRole:   middleware.GetUserRole(c),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*updated, false))
}

// DeleteGroup removes a group and everything bound to it
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	if err := h.groupService.DeleteGroup(group.ID, userID, middleware.GetUserRole(c)); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// RegenerateJoinCode rotates the group's join code
func (h *GroupHandler) RegenerateJoinCode(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	updated, err := h.groupService.RegenerateJoinCode(group.ID, userID, middleware.GetUserRole(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*updated, true))
}

// JoinGroup adds the user to a group via join code
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	type JoinGroupRequest struct {
		JoinCode string `json:"join_code" binding:"required"`
	}

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	group, err := h.groupService.JoinByCode(userID, middleware.GetUserRole(c), req.JoinCode)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group, false))
}

// LeaveGroup removes the authenticated user from the group
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	if err := h.groupService.RemoveMember(group.ID, userID, middleware.GetUserRole(c), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group successfully"})
}

// RemoveMember removes another member from the group
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.groupService.RemoveMember(group.ID, userID, middleware.GetUserRole(c), targetID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// ListMembers returns the members of a group
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupInterface, _ := c.Get("group")
	group, ok := groupInterface.(models.Group)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "group not found in context"))
		return
	}

	_, members, err := h.groupService.GetGroup(group.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	memberDTOs := make([]dto.GroupMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToGroupMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}
