package repository

import (
	"database/sql"
	"errors"
	"time"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// ShareRepository handles database operations for repository shares
type ShareRepository struct {
	db database.DBTX
}

// NewShareRepository creates a new share repository
func NewShareRepository(db database.DBTX) *ShareRepository {
	return &ShareRepository{db: db}
}

// CreateShare inserts a share invite
func (r *ShareRepository) CreateShare(repoID int64, inviteCode, email, role string, createdBy int64) (*models.Share, error) {
	query := "INSERT INTO shares (repository_id, invite_code, email, role, created_by) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, repoID, inviteCode, email, role, createdBy)
	if err != nil {
		return nil, err
	}
	return r.GetShare(id)
}

const shareSelect = `
	SELECT id, repository_id, invite_code, email, role, created_by, created_at, accepted_by, accepted_at
	FROM shares
`

// GetShare retrieves a share by ID, or nil if not found
func (r *ShareRepository) GetShare(id int64) (*models.Share, error) {
	return r.scanShare(r.db.QueryRow(shareSelect+" WHERE id = ?", id))
}

// GetShareByInviteCode retrieves a share by invite code, or nil if not found
func (r *ShareRepository) GetShareByInviteCode(code string) (*models.Share, error) {
	return r.scanShare(r.db.QueryRow(shareSelect+" WHERE invite_code = ?", code))
}

func (r *ShareRepository) scanShare(row *sql.Row) (*models.Share, error) {
	share := &models.Share{}
	var acceptedBy sql.NullInt64
	var acceptedAt sql.NullTime
	err := row.Scan(
		&share.ID, &share.RepositoryID, &share.InviteCode, &share.Email,
		&share.Role, &share.CreatedBy, &share.CreatedAt, &acceptedBy, &acceptedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if acceptedBy.Valid {
		share.AcceptedBy = &acceptedBy.Int64
	}
	if acceptedAt.Valid {
		share.AcceptedAt = &acceptedAt.Time
	}
	return share, nil
}

// ListSharesForRepository returns all shares of a repository
func (r *ShareRepository) ListSharesForRepository(repoID int64) ([]models.Share, error) {
	rows, err := r.db.Query(shareSelect+" WHERE repository_id = ? ORDER BY created_at", repoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanShares(rows)
}

// ListAcceptedSharesForUser returns shares the user has accepted
func (r *ShareRepository) ListAcceptedSharesForUser(userID int64) ([]models.Share, error) {
	rows, err := r.db.Query(shareSelect+" WHERE accepted_by = ? ORDER BY accepted_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanShares(rows)
}

func (r *ShareRepository) scanShares(rows *sql.Rows) ([]models.Share, error) {
	var shares []models.Share
	for rows.Next() {
		share := models.Share{}
		var acceptedBy sql.NullInt64
		var acceptedAt sql.NullTime
		if err := rows.Scan(
			&share.ID, &share.RepositoryID, &share.InviteCode, &share.Email,
			&share.Role, &share.CreatedBy, &share.CreatedAt, &acceptedBy, &acceptedAt,
		); err != nil {
			return nil, err
		}
		if acceptedBy.Valid {
			share.AcceptedBy = &acceptedBy.Int64
		}
		if acceptedAt.Valid {
			share.AcceptedAt = &acceptedAt.Time
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// AcceptShare marks a share as accepted by a user
func (r *ShareRepository) AcceptShare(id, userID int64) error {
	query := "UPDATE shares SET accepted_by = ?, accepted_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, userID, time.Now(), id)
	return err
}

// GetShareRole returns the user's accepted share role for a repository, or "" if none
func (r *ShareRepository) GetShareRole(repoID, userID int64) (string, error) {
	var role string
	err := r.db.QueryRow(
		"SELECT role FROM shares WHERE repository_id = ? AND accepted_by = ?", repoID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// DeleteShare revokes a share
func (r *ShareRepository) DeleteShare(id int64) error {
	_, err := r.db.Exec("DELETE FROM shares WHERE id = ?", id)
	return err
}
