package repository

import (
	"github.com/yukikurage/group-collab-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Add inserts a membership row
func (r *GormMembershipRepository) Add(member *models.GroupMember) error {
	return r.db.Create(member).Error
}

// Remove deletes a membership row. The leaving member's assignment
// rows are deliberately left in place as historical record; active
// assignment queries filter them out against current membership.
func (r *GormMembershipRepository) Remove(groupID, userID uint64) error {
	result := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Find finds a specific membership row
func (r *GormMembershipRepository) Find(groupID, userID uint64) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByGroup lists all members of a group
func (r *GormMembershipRepository) ListByGroup(groupID uint64) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Preload("User").
		Where("group_id = ?", groupID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListByUser lists all groups a user is a member of
func (r *GormMembershipRepository) ListByUser(userID uint64) ([]models.GroupMember, error) {
	var memberships []models.GroupMember
	if err := r.db.Preload("Group").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListStudentsByGroup lists members whose role at join was student
func (r *GormMembershipRepository) ListStudentsByGroup(groupID uint64) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Where("group_id = ? AND role = ?", groupID, models.RoleStudent).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
