package repository

import (
	"github.com/yukikurage/group-collab-api/internal/models"
	"gorm.io/gorm"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group
func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByJoinCode finds a group by its join code
func (r *GormGroupRepository) FindByJoinCode(code string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("join_code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByName finds a group by name. Names are not unique; first
// match by ID wins.
func (r *GormGroupRepository) FindByName(name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("name = ?", name).Order("id ASC").First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Update updates a group
func (r *GormGroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// Delete removes a group and all related data in one transaction.
// Order follows the dependency chain so a failure at any step rolls
// back the whole cascade.
func (r *GormGroupRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Assignments hang off the group's tasks.
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("group_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Group{}, id).Error
	})
}
