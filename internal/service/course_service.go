package service

import (
	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"
)

// CourseService handles course business logic
type CourseService struct {
	courseRepo *repository.CourseRepository
	skillRepo  *repository.SkillRepository
	orgRepo    *repository.OrgRepository
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo *repository.CourseRepository, skillRepo *repository.SkillRepository, orgRepo *repository.OrgRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, skillRepo: skillRepo, orgRepo: orgRepo}
}

// CreateCourse adds a course to an organisation. Requires admin.
func (s *CourseService) CreateCourse(userID, orgID int64, name, description string) (*models.Course, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := s.requireRole(orgID, userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.courseRepo.CreateCourse(orgID, name, description, userID)
}

// GetCourse returns a course with its linked skills
func (s *CourseService) GetCourse(userID, courseID int64) (*models.CourseWithSkills, error) {
	course, err := s.courseRepo.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if err := s.requireRole(course.OrganisationID, userID, models.RoleMember); err != nil {
		return nil, err
	}

	skills, err := s.skillRepo.ListCourseSkills(courseID)
	if err != nil {
		return nil, err
	}
	return &models.CourseWithSkills{Course: *course, Skills: skills}, nil
}

// ListCourses returns an organisation's courses
func (s *CourseService) ListCourses(userID, orgID int64) ([]models.Course, error) {
	if err := s.requireRole(orgID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	return s.courseRepo.ListCourses(orgID)
}

// UpdateCourse changes a course's metadata. Requires admin.
func (s *CourseService) UpdateCourse(userID, courseID int64, name, description string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	course, err := s.courseRepo.GetCourse(courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if err := s.requireRole(course.OrganisationID, userID, models.RoleAdmin); err != nil {
		return err
	}
	return s.courseRepo.UpdateCourse(courseID, name, description)
}

// DeleteCourse removes a course. Requires admin.
func (s *CourseService) DeleteCourse(userID, courseID int64) error {
	course, err := s.courseRepo.GetCourse(courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if err := s.requireRole(course.OrganisationID, userID, models.RoleAdmin); err != nil {
		return err
	}
	return s.courseRepo.DeleteCourse(courseID)
}

// LinkSkill attaches a skill to a course. Requires admin.
func (s *CourseService) LinkSkill(userID, courseID, skillID int64) error {
	course, err := s.courseRepo.GetCourse(courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if err := s.requireRole(course.OrganisationID, userID, models.RoleAdmin); err != nil {
		return err
	}
	skill, err := s.skillRepo.GetSkill(skillID)
	if err != nil {
		return err
	}
	if skill == nil {
		return ErrNotFound
	}
	// Only global skills or the organisation's own skills may be linked
	if skill.OrganisationID != nil && *skill.OrganisationID != course.OrganisationID {
		return ErrForbidden
	}
	return s.skillRepo.LinkCourseSkill(courseID, skillID)
}

// UnlinkSkill detaches a skill from a course. Requires admin.
func (s *CourseService) UnlinkSkill(userID, courseID, skillID int64) error {
	course, err := s.courseRepo.GetCourse(courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if err := s.requireRole(course.OrganisationID, userID, models.RoleAdmin); err != nil {
		return err
	}
	return s.skillRepo.UnlinkCourseSkill(courseID, skillID)
}

func (s *CourseService) requireRole(orgID, userID int64, minimum string) error {
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrNotMember
	}
	if !roleAtLeast(role, minimum) {
		return ErrForbidden
	}
	return nil
}
