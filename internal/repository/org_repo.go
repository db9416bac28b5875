package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// OrgRepository handles database operations for organisations and memberships
type OrgRepository struct {
	db database.DBTX
}

// NewOrgRepository creates a new organisation repository
func NewOrgRepository(db database.DBTX) *OrgRepository {
	return &OrgRepository{db: db}
}

// CreateOrganisation inserts an organisation and adds the creator as owner
func (r *OrgRepository) CreateOrganisation(name, description string, createdBy int64) (*models.Organisation, error) {
	query := "INSERT INTO organisations (name, description, created_by) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, name, description, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create organisation: %w", err)
	}

	memberQuery := "INSERT INTO organisation_members (organisation_id, user_id, role) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(memberQuery, id, createdBy, models.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	return r.GetOrganisation(id)
}

// GetOrganisation retrieves an organisation by ID, or nil if not found
func (r *OrgRepository) GetOrganisation(id int64) (*models.Organisation, error) {
	org := &models.Organisation{}
	err := r.db.QueryRow(
		"SELECT id, name, description, created_by, created_at, updated_at FROM organisations WHERE id = ?", id,
	).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganisationsForUser returns all organisations the user belongs to
func (r *OrgRepository) ListOrganisationsForUser(userID int64) ([]models.Organisation, error) {
	query := `
		SELECT o.id, o.name, o.description, o.created_by, o.created_at, o.updated_at
		FROM organisations o
		JOIN organisation_members m ON m.organisation_id = o.id
		WHERE m.user_id = ?
		ORDER BY o.name
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []models.Organisation
	for rows.Next() {
		var org models.Organisation
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// UpdateOrganisation changes an organisation's name and description
func (r *OrgRepository) UpdateOrganisation(id int64, name, description string) error {
	query := "UPDATE organisations SET name = ?, description = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, name, description, time.Now(), id)
	return err
}

// DeleteOrganisation removes an organisation and all dependent rows
func (r *OrgRepository) DeleteOrganisation(id int64) error {
	_, err := r.db.Exec("DELETE FROM organisations WHERE id = ?", id)
	return err
}

// GetMemberRole returns the user's role in the organisation, or "" if not a member
func (r *OrgRepository) GetMemberRole(orgID, userID int64) (string, error) {
	var role string
	err := r.db.QueryRow(
		"SELECT role FROM organisation_members WHERE organisation_id = ? AND user_id = ?", orgID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// AddMember adds a user to an organisation with the given role
func (r *OrgRepository) AddMember(orgID, userID int64, role string) error {
	query := "INSERT INTO organisation_members (organisation_id, user_id, role) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, orgID, userID, role)
	return err
}

// UpdateMemberRole changes a member's role
func (r *OrgRepository) UpdateMemberRole(orgID, userID int64, role string) error {
	query := "UPDATE organisation_members SET role = ? WHERE organisation_id = ? AND user_id = ?"
	_, err := r.db.Exec(query, role, orgID, userID)
	return err
}

// RemoveMember removes a user from an organisation
func (r *OrgRepository) RemoveMember(orgID, userID int64) error {
	_, err := r.db.Exec("DELETE FROM organisation_members WHERE organisation_id = ? AND user_id = ?", orgID, userID)
	return err
}

// ListMembers returns all members of an organisation with their user info
func (r *OrgRepository) ListMembers(orgID int64) ([]models.OrgMemberWithUser, error) {
	query := `
		SELECT m.id, m.organisation_id, m.user_id, m.role, m.added_at, u.email, u.name
		FROM organisation_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organisation_id = ?
		ORDER BY u.name
	`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.OrgMemberWithUser
	for rows.Next() {
		var m models.OrgMemberWithUser
		if err := rows.Scan(&m.ID, &m.OrganisationID, &m.UserID, &m.Role, &m.AddedAt, &m.Email, &m.Name); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CountOwners returns how many owners an organisation has
func (r *OrgRepository) CountOwners(orgID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM organisation_members WHERE organisation_id = ? AND role = ?", orgID, models.RoleOwner,
	).Scan(&count)
	return count, err
}
