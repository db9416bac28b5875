package service

import (
	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"
)

// SkillService handles skill taxonomy business logic
type SkillService struct {
	skillRepo *repository.SkillRepository
	orgRepo   *repository.OrgRepository
}

// NewSkillService creates a new skill service
func NewSkillService(skillRepo *repository.SkillRepository, orgRepo *repository.OrgRepository) *SkillService {
	return &SkillService{skillRepo: skillRepo, orgRepo: orgRepo}
}

// ListSkills returns global skills plus the organisation's own
func (s *SkillService) ListSkills(userID, orgID int64) ([]models.Skill, error) {
	if err := s.requireMember(orgID, userID); err != nil {
		return nil, err
	}
	return s.skillRepo.ListSkills(orgID)
}

// CreateSkill adds an organisation-defined skill. Requires admin.
func (s *SkillService) CreateSkill(userID, orgID int64, name, description string) (*models.Skill, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(orgID, userID); err != nil {
		return nil, err
	}
	return s.skillRepo.CreateSkill(orgID, name, description)
}

// UpdateSkill changes an organisation-defined skill. Requires admin.
// Global skills cannot be edited.
func (s *SkillService) UpdateSkill(userID, orgID, skillID int64, name, description string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	if err := s.requireAdmin(orgID, userID); err != nil {
		return err
	}
	skill, err := s.skillRepo.GetSkill(skillID)
	if err != nil {
		return err
	}
	if skill == nil {
		return ErrNotFound
	}
	if skill.OrganisationID == nil || *skill.OrganisationID != orgID {
		return ErrForbidden
	}
	return s.skillRepo.UpdateSkill(skillID, name, description)
}

// DeleteSkill removes an organisation-defined skill. Requires admin.
func (s *SkillService) DeleteSkill(userID, orgID, skillID int64) error {
	if err := s.requireAdmin(orgID, userID); err != nil {
		return err
	}
	skill, err := s.skillRepo.GetSkill(skillID)
	if err != nil {
		return err
	}
	if skill == nil {
		return ErrNotFound
	}
	if skill.OrganisationID == nil || *skill.OrganisationID != orgID {
		return ErrForbidden
	}
	return s.skillRepo.DeleteSkill(skillID)
}

func (s *SkillService) requireMember(orgID, userID int64) error {
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrNotMember
	}
	return nil
}

func (s *SkillService) requireAdmin(orgID, userID int64) error {
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrNotMember
	}
	if !roleAtLeast(role, models.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}
