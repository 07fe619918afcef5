package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is the per-member view of a task, created by fanout when
// the task is created. Its status is owned by the member it belongs
// to and moves independently of the canonical Task.Status.
type Assignment struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	Status    TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
