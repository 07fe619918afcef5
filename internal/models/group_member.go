package models

import "time"

// GroupMember records that a user belongs to a group, with the role
// they held at join time. The role is a snapshot: a later change to
// the user's account role does not rewrite existing memberships.
type GroupMember struct {
	GroupID  uint64   `gorm:"primarykey" json:"group_id"`
	UserID   uint64   `gorm:"primarykey" json:"user_id"`
	Role     UserRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
