package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus normalizes a status string to its canonical
// lower-case value. The match is case-insensitive; anything outside
// the known set is rejected.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TaskStatusPending:
		return TaskStatusPending, true
	case TaskStatusInProgress:
		return TaskStatusInProgress, true
	case TaskStatusCompleted:
		return TaskStatusCompleted, true
	case TaskStatusCancelled:
		return TaskStatusCancelled, true
	}
	return "", false
}

// Task is the canonical record of a unit of work scoped to a group.
// Status here is the group-level view shown to creators and admins;
// each member's personal progress lives in their Assignment row.
type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	GroupID     uint64         `gorm:"not null" json:"group_id"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	AssigneeID  *uint64        `json:"assignee_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Group       Group        `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
