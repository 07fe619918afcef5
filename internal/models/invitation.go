package models

import (
	"time"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationApproved InvitationStatus = "approved"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation asks a teacher to join a student-created group. The
// approved and rejected states are terminal; approval is the only
// event that creates a teacher membership for the group.
type Invitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	GroupID        uint64           `gorm:"not null;index" json:"group_id"`
	TeacherID      uint64           `gorm:"not null;index" json:"teacher_id"`
	InvitedByID    uint64           `gorm:"not null" json:"invited_by_id"`
	ProjectDetails string           `gorm:"type:text" json:"project_details"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Group     Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Teacher   User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	InvitedBy User  `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
}

// IsPending reports whether the invitation can still be responded to.
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationPending
}
