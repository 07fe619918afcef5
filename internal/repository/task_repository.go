package repository

import (
	"github.com/yukikurage/group-collab-api/internal/database"
	"github.com/yukikurage/group-collab-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.GroupID != nil {
		query = query.Where("tasks.group_id = ?", *filter.GroupID)
	}
	if filter.CreatorID != nil {
		query = query.Where("tasks.creator_id = ?", *filter.CreatorID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.ViewerID != nil {
		// Member visibility: group-wide tasks plus tasks targeted at
		// the viewer. Applied at query time, never stored.
		query = query.Where("tasks.assignee_id IS NULL OR tasks.assignee_id = ?", *filter.ViewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListForUser lists tasks the user created or holds an assignment on
func (r *GormTaskRepository) ListForUser(userID uint64) ([]models.Task, error) {
	var tasks []models.Task

	assignmentSubQuery := r.db.Model(&models.Assignment{}).
		Select("1").
		Where("assignments.task_id = tasks.id").
		Where("assignments.user_id = ?", userID).
		Where("assignments.deleted_at IS NULL")

	err := r.db.Model(&models.Task{}).
		Where("tasks.creator_id = ? OR tasks.assignee_id = ? OR EXISTS (?)",
			userID, userID, assignmentSubQuery).
		Order("tasks.created_at DESC").
		Preload("Creator").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task and its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
