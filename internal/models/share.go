package models

import "time"

// Share roles
const (
	ShareRoleViewer = "viewer"
	ShareRoleEditor = "editor"
)

// Share grants a user outside the owning organisation access to a repository
type Share struct {
	ID           int64
	RepositoryID int64
	InviteCode   string
	Email        string
	Role         string
	CreatedBy    int64
	CreatedAt    time.Time
	AcceptedBy   *int64
	AcceptedAt   *time.Time
}

// IsAccepted reports whether the invite has been accepted
func (s *Share) IsAccepted() bool {
	return s.AcceptedBy != nil
}

// Notification kinds
const (
	NotificationTasksReady  = "tasks_ready"
	NotificationShareInvite = "share_invite"
	NotificationStudyDone   = "study_done"
)

// Notification is a message surfaced to a user
type Notification struct {
	ID        int64
	UserID    int64
	Kind      string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
