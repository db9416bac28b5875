package repository

import (
	"database/sql"
	"errors"
	"time"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db database.DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db database.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a new course
func (r *CourseRepository) CreateCourse(orgID int64, name, description string, createdBy int64) (*models.Course, error) {
	query := "INSERT INTO courses (organisation_id, name, description, created_by) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, orgID, name, description, createdBy)
	if err != nil {
		return nil, err
	}
	return r.GetCourse(id)
}

// GetCourse retrieves a course by ID, or nil if not found
func (r *CourseRepository) GetCourse(id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.db.QueryRow(
		"SELECT id, organisation_id, name, description, created_by, created_at, updated_at FROM courses WHERE id = ?", id,
	).Scan(&course.ID, &course.OrganisationID, &course.Name, &course.Description, &course.CreatedBy, &course.CreatedAt, &course.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// ListCourses returns all courses in an organisation
func (r *CourseRepository) ListCourses(orgID int64) ([]models.Course, error) {
	query := `
		SELECT id, organisation_id, name, description, created_by, created_at, updated_at
		FROM courses
		WHERE organisation_id = ?
		ORDER BY name
	`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.OrganisationID, &course.Name, &course.Description, &course.CreatedBy, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// UpdateCourse changes a course's name and description
func (r *CourseRepository) UpdateCourse(id int64, name, description string) error {
	query := "UPDATE courses SET name = ?, description = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, name, description, time.Now(), id)
	return err
}

// DeleteCourse removes a course
func (r *CourseRepository) DeleteCourse(id int64) error {
	_, err := r.db.Exec("DELETE FROM courses WHERE id = ?", id)
	return err
}
