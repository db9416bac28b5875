package models

import "time"

// Skill represents a learning skill. Global skills (OrganisationID nil) form the
// built-in taxonomy; organisations can define their own on top.
type Skill struct {
	ID             int64
	OrganisationID *int64
	Name           string
	Description    string
	CreatedAt      time.Time
}

// Course represents an organisation-scoped course linking repositories to skills
type Course struct {
	ID             int64
	OrganisationID int64
	Name           string
	Description    string
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CourseWithSkills combines a course with its linked skills
type CourseWithSkills struct {
	Course
	Skills []Skill
}
