package repository

import (
	"time"

	"github.com/yukikurage/group-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(inv *models.Invitation) error {
	return r.db.Create(inv).Error
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(id uint64) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.Preload("Group").Preload("Teacher").First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindPending finds the pending invitation for a (group, teacher) pair
func (r *GormInvitationRepository) FindPending(groupID, teacherID uint64) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.db.
		Where("group_id = ? AND teacher_id = ? AND status = ?",
			groupID, teacherID, models.InvitationPending).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPendingForTeacher lists a teacher's pending invitations
func (r *GormInvitationRepository) ListPendingForTeacher(teacherID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.
		Where("teacher_id = ? AND status = ?", teacherID, models.InvitationPending).
		Preload("Group").
		Preload("InvitedBy").
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Respond transitions a pending invitation to a terminal status. The
// status flip is a conditional UPDATE on status = pending, so two
// concurrent responders cannot both win: the loser sees zero rows
// affected and gets ErrInvitationProcessed. On approval the teacher's
// membership is created inside the same transaction; a failure there
// rolls the status flip back, so the invitation can never read
// approved without the membership existing.
func (r *GormInvitationRepository) Respond(id uint64, status models.InvitationStatus) (*models.Invitation, error) {
	var inv models.Invitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", id, models.InvitationPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvitationProcessed
		}

		if status == models.InvitationApproved {
			member := models.GroupMember{
				GroupID:  inv.GroupID,
				UserID:   inv.TeacherID,
				Role:     models.RoleTeacher,
				JoinedAt: time.Now(),
			}
			// Tolerate a retry that already created the membership.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&member).Error; err != nil {
				return err
			}
		}

		inv.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}
