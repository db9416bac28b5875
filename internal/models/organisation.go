package models

import "time"

// Organisation member roles
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Organisation represents a group of users that owns courses and repositories
type Organisation struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrgMember represents a user's membership in an organisation
type OrgMember struct {
	ID             int64
	OrganisationID int64
	UserID         int64
	Role           string
	AddedAt        time.Time
}

// OrgMemberWithUser combines membership with the user's display info
type OrgMemberWithUser struct {
	OrgMember
	Email string
	Name  string
}

// CanManage reports whether the role may manage organisation content
func CanManage(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
