package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and listing
		{"tasks", "idx_tasks_group_id", "group_id"},
		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_assignee_id", "assignee_id"},
		{"tasks", "idx_tasks_status", "status"},

		// Group member indexes
		{"group_members", "idx_group_members_group_id", "group_id"},
		{"group_members", "idx_group_members_user_id", "user_id"},

		// Assignment indexes
		{"assignments", "idx_assignments_task_id", "task_id"},
		{"assignments", "idx_assignments_user_id", "user_id"},

		// Pending-invitation lookups
		{"invitations", "idx_invitations_group_teacher", "group_id, teacher_id"},
		{"invitations", "idx_invitations_teacher_status", "teacher_id, status"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
