package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/group-collab-api/internal/dto"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/middleware"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/services"
	"github.com/yukikurage/group-collab-api/internal/utils"
)

type TaskHandler struct {
	taskService   *services.TaskService
	assignService *services.AssignmentService
}

func NewTaskHandler(taskService *services.TaskService, assignService *services.AssignmentService) *TaskHandler {
	return &TaskHandler{taskService: taskService, assignService: assignService}
}

// CreateTask creates a new task and fans out assignments
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
		GroupID     uint64     `json:"group_id" binding:"required"`
		AssigneeID  *uint64    `json:"assignee_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		GroupID:     req.GroupID,
		CreatorID:   userID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskInterface, exists := c.Get("task")
	if !exists {
		apperrors.Respond(c, apperrors.Internal(nil, "task not found in context"))
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "invalid task data"))
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// UpdateTask rewrites a task's full mutable field set
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	taskInterface, _ := c.Get("task")
	task, ok := taskInterface.(models.Task)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "task not found in context"))
		return
	}

	// Full field set required; partial updates are not supported.
	type UpdateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description" binding:"required"`
		Status      string     `json:"status" binding:"required"`
		DueDate     *time.Time `json:"due_date"`
		GroupID     uint64     `json:"group_id" binding:"required"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "title, description, status and group_id are required")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: *req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		GroupID:     req.GroupID,
		ActorID:     userID,
		ActorRole:   middleware.GetUserRole(c),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UpdateTaskStatus records the caller's view of the task's progress
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	taskInterface, _ := c.Get("task")
	task, ok := taskInterface.(models.Task)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "task not found in context"))
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "")
		return
	}

	updated, err := h.taskService.UpdateStatus(task.ID, req.Status, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	taskInterface, _ := c.Get("task")
	task, ok := taskInterface.(models.Task)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "task not found in context"))
		return
	}

	if err := h.taskService.DeleteTask(task.ID, userID, middleware.GetUserRole(c)); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ListTaskAssignments returns the per-member progress rows for a task.
// Rows belonging to users who have left the group are not included.
func (h *TaskHandler) ListTaskAssignments(c *gin.Context) {
	taskInterface, _ := c.Get("task")
	task, ok := taskInterface.(models.Task)
	if !ok {
		apperrors.Respond(c, apperrors.Internal(nil, "task not found in context"))
		return
	}

	assignments, err := h.assignService.ListForTask(task.ID, task.GroupID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// ListMyAssignments returns every assignment the current user holds
func (h *TaskHandler) ListMyAssignments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	assignments, err := h.assignService.ListForUser(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToUserAssignmentDTOs(assignments)})
}

// ListTasks returns tasks visible to the current user.
// ?group_id= scopes to one group; ?all=true is the admin view; with
// neither, tasks the user created or holds an assignment on.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	if c.Query("all") == "true" {
		tasks, total, err := h.taskService.ListAll(middleware.GetUserRole(c), params.Page, params.Limit)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		h.respondTaskList(c, tasks, params, total)
		return
	}

	if groupIDStr := c.Query("group_id"); groupIDStr != "" {
		groupID, err := strconv.ParseUint(groupIDStr, 10, 64)
		if err != nil {
			apperrors.BadRequest(c, "Invalid group_id")
			return
		}

		tasks, total, err := h.taskService.ListByGroup(groupID, userID, params.Page, params.Limit)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		h.respondTaskList(c, tasks, params, total)
		return
	}

	tasks, err := h.taskService.ListByUser(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	h.respondTaskList(c, tasks, params, int64(len(tasks)))
}

func (h *TaskHandler) respondTaskList(c *gin.Context, tasks []models.Task, params utils.PaginationParams, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
