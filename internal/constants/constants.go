package constants

// Session
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	SessionName        = "collab_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// Join codes are regenerated on collision; the retry cap only guards
// against a degenerate code space, not normal operation.
const MaxJoinCodeAttempts = 10
