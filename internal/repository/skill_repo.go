package repository

import (
	"database/sql"
	"errors"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// SkillRepository handles database operations for skills and course-skill links
type SkillRepository struct {
	db database.DBTX
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db database.DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

// CreateSkill inserts an organisation-defined skill
func (r *SkillRepository) CreateSkill(orgID int64, name, description string) (*models.Skill, error) {
	query := "INSERT INTO skills (organisation_id, name, description) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, orgID, name, description)
	if err != nil {
		return nil, err
	}
	return r.GetSkill(id)
}

// GetSkill retrieves a skill by ID, or nil if not found
func (r *SkillRepository) GetSkill(id int64) (*models.Skill, error) {
	skill := &models.Skill{}
	var orgID sql.NullInt64
	err := r.db.QueryRow(
		"SELECT id, organisation_id, name, description, created_at FROM skills WHERE id = ?", id,
	).Scan(&skill.ID, &orgID, &skill.Name, &skill.Description, &skill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if orgID.Valid {
		skill.OrganisationID = &orgID.Int64
	}
	return skill, nil
}

// ListSkills returns the global taxonomy plus the organisation's own skills
func (r *SkillRepository) ListSkills(orgID int64) ([]models.Skill, error) {
	query := `
		SELECT id, organisation_id, name, description, created_at
		FROM skills
		WHERE organisation_id IS NULL OR organisation_id = ?
		ORDER BY organisation_id IS NOT NULL, name
	`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSkills(rows)
}

func scanSkills(rows *sql.Rows) ([]models.Skill, error) {
	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		var orgID sql.NullInt64
		if err := rows.Scan(&skill.ID, &orgID, &skill.Name, &skill.Description, &skill.CreatedAt); err != nil {
			return nil, err
		}
		if orgID.Valid {
			skill.OrganisationID = &orgID.Int64
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// UpdateSkill changes a skill's name and description
func (r *SkillRepository) UpdateSkill(id int64, name, description string) error {
	_, err := r.db.Exec("UPDATE skills SET name = ?, description = ? WHERE id = ?", name, description, id)
	return err
}

// DeleteSkill removes an organisation-defined skill. Global skills are kept.
func (r *SkillRepository) DeleteSkill(id int64) error {
	_, err := r.db.Exec("DELETE FROM skills WHERE id = ? AND organisation_id IS NOT NULL", id)
	return err
}

// LinkCourseSkill attaches a skill to a course
func (r *SkillRepository) LinkCourseSkill(courseID, skillID int64) error {
	_, err := r.db.Exec("INSERT INTO course_skills (course_id, skill_id) VALUES (?, ?)", courseID, skillID)
	return err
}

// UnlinkCourseSkill detaches a skill from a course
func (r *SkillRepository) UnlinkCourseSkill(courseID, skillID int64) error {
	_, err := r.db.Exec("DELETE FROM course_skills WHERE course_id = ? AND skill_id = ?", courseID, skillID)
	return err
}

// ListCourseSkills returns the skills linked to a course
func (r *SkillRepository) ListCourseSkills(courseID int64) ([]models.Skill, error) {
	query := `
		SELECT s.id, s.organisation_id, s.name, s.description, s.created_at
		FROM skills s
		JOIN course_skills cs ON cs.skill_id = s.id
		WHERE cs.course_id = ?
		ORDER BY s.name
	`
	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSkills(rows)
}
