package repository

import (
	"github.com/yukikurage/group-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// BulkCreate inserts the fanout rows for a task. A conflicting row
// (e.g. a retried fanout) is revived rather than duplicated.
func (r *GormAssignmentRepository) BulkCreate(assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&assignments).Error
}

// Find finds a specific assignment
func (r *GormAssignmentRepository) Find(taskID, userID uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateStatus overwrites the status of one assignment
func (r *GormAssignmentRepository) UpdateStatus(taskID, userID uint64, status models.TaskStatus) error {
	result := r.db.Model(&models.Assignment{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActiveByTask lists a task's assignments restricted to current
// group members. Rows belonging to users who have since left the
// group stay in the table but do not surface here.
func (r *GormAssignmentRepository) ListActiveByTask(taskID, groupID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.
		Joins("JOIN group_members ON group_members.user_id = assignments.user_id AND group_members.group_id = ?", groupID).
		Where("assignments.task_id = ?", taskID).
		Preload("User").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByUser lists all assignments held by a user
func (r *GormAssignmentRepository) ListByUser(userID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Where("user_id = ?", userID).
		Preload("Task").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
