package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/group-collab-api/internal/dto"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/middleware"
	"github.com/yukikurage/group-collab-api/internal/services"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// CreateInvitation invites a teacher into a group
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	type CreateInvitationRequest struct {
		GroupName      string `json:"group_name" binding:"required"`
		TeacherName    string `json:"teacher_name" binding:"required"`
		ProjectDetails string `json:"project_details"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	inv, err := h.invitationService.CreateInvitation(services.CreateInvitationInput{
		GroupName:      req.GroupName,
		TeacherName:    req.TeacherName,
		ProjectDetails: req.ProjectDetails,
		InvitedByID:    userID,
		InviterRole:    middleware.GetUserRole(c),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*inv))
}

// ListInvitations returns the caller's pending invitation inbox
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	invitations, err := h.invitationService.ListForTeacher(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": dto.ToInvitationDTOs(invitations)})
}

// RespondInvitation approves or rejects a pending invitation
func (h *InvitationHandler) RespondInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	invitationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	type RespondRequest struct {
		Decision string `json:"decision" binding:"required"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	inv, err := h.invitationService.Respond(invitationID, req.Decision, userID, middleware.GetUserRole(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*inv))
}
