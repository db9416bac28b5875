package service

import (
	"errors"
	"fmt"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"
)

var (
	ErrNotMember   = errors.New("not a member of this organisation")
	ErrForbidden   = errors.New("insufficient permissions")
	ErrNotFound    = errors.New("not found")
	ErrLastOwner   = errors.New("an organisation must keep at least one owner")
	ErrAlreadyInOrg = errors.New("user is already a member")
)

// OrgService handles organisation business logic
type OrgService struct {
	orgRepo  *repository.OrgRepository
	userRepo *repository.UserRepository
}

// NewOrgService creates a new organisation service
func NewOrgService(orgRepo *repository.OrgRepository, userRepo *repository.UserRepository) *OrgService {
	return &OrgService{orgRepo: orgRepo, userRepo: userRepo}
}

// CreateOrganisation creates an organisation owned by the user
func (s *OrgService) CreateOrganisation(userID int64, name, description string) (*models.Organisation, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	return s.orgRepo.CreateOrganisation(name, description, userID)
}

// GetOrganisation returns an organisation the user is a member of
func (s *OrgService) GetOrganisation(userID, orgID int64) (*models.Organisation, error) {
	if _, err := s.requireRole(orgID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetOrganisation(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotFound
	}
	return org, nil
}

// ListOrganisations returns the organisations the user belongs to
func (s *OrgService) ListOrganisations(userID int64) ([]models.Organisation, error) {
	return s.orgRepo.ListOrganisationsForUser(userID)
}

// UpdateOrganisation changes an organisation's metadata. Requires admin.
func (s *OrgService) UpdateOrganisation(userID, orgID int64, name, description string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.requireRole(orgID, userID, models.RoleAdmin); err != nil {
		return err
	}
	return s.orgRepo.UpdateOrganisation(orgID, name, description)
}

// DeleteOrganisation removes an organisation. Requires owner.
func (s *OrgService) DeleteOrganisation(userID, orgID int64) error {
	if _, err := s.requireRole(orgID, userID, models.RoleOwner); err != nil {
		return err
	}
	return s.orgRepo.DeleteOrganisation(orgID)
}

// ListMembers returns an organisation's members
func (s *OrgService) ListMembers(userID, orgID int64) ([]models.OrgMemberWithUser, error) {
	if _, err := s.requireRole(orgID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	return s.orgRepo.ListMembers(orgID)
}

// AddMember adds a user by email with the given role. Requires admin.
func (s *OrgService) AddMember(userID, orgID int64, email, role string) error {
	if err := validation.ValidateRole(role); err != nil {
		return err
	}
	if _, err := s.requireRole(orgID, userID, models.RoleAdmin); err != nil {
		return err
	}

	target, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if target == nil {
		return ErrNotFound
	}

	existing, err := s.orgRepo.GetMemberRole(orgID, target.ID)
	if err != nil {
		return err
	}
	if existing != "" {
		return ErrAlreadyInOrg
	}

	return s.orgRepo.AddMember(orgID, target.ID, role)
}

// UpdateMemberRole changes a member's role. Requires admin; only owners
// may grant or revoke the owner role.
func (s *OrgService) UpdateMemberRole(userID, orgID, targetUserID int64, role string) error {
	if err := validation.ValidateRole(role); err != nil {
		return err
	}
	callerRole, err := s.requireRole(orgID, userID, models.RoleAdmin)
	if err != nil {
		return err
	}

	targetRole, err := s.orgRepo.GetMemberRole(orgID, targetUserID)
	if err != nil {
		return err
	}
	if targetRole == "" {
		return ErrNotMember
	}

	if (role == models.RoleOwner || targetRole == models.RoleOwner) && callerRole != models.RoleOwner {
		return ErrForbidden
	}
	if targetRole == models.RoleOwner && role != models.RoleOwner {
		if err := s.ensureNotLastOwner(orgID); err != nil {
			return err
		}
	}

	return s.orgRepo.UpdateMemberRole(orgID, targetUserID, role)
}

// RemoveMember removes a member. Admins can remove members; members can
// remove themselves. The last owner cannot leave.
func (s *OrgService) RemoveMember(userID, orgID, targetUserID int64) error {
	if userID != targetUserID {
		if _, err := s.requireRole(orgID, userID, models.RoleAdmin); err != nil {
			return err
		}
	}

	targetRole, err := s.orgRepo.GetMemberRole(orgID, targetUserID)
	if err != nil {
		return err
	}
	if targetRole == "" {
		return ErrNotMember
	}
	if targetRole == models.RoleOwner {
		if err := s.ensureNotLastOwner(orgID); err != nil {
			return err
		}
	}

	return s.orgRepo.RemoveMember(orgID, targetUserID)
}

func (s *OrgService) ensureNotLastOwner(orgID int64) error {
	owners, err := s.orgRepo.CountOwners(orgID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}

// requireRole checks that the user holds at least the given role in the
// organisation and returns the actual role held.
func (s *OrgService) requireRole(orgID, userID int64, minimum string) (string, error) {
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check membership: %w", err)
	}
	if role == "" {
		return "", ErrNotMember
	}
	if !roleAtLeast(role, minimum) {
		return role, ErrForbidden
	}
	return role, nil
}

var roleRank = map[string]int{
	models.RoleMember: 1,
	models.RoleAdmin:  2,
	models.RoleOwner:  3,
}

func roleAtLeast(role, minimum string) bool {
	return roleRank[role] >= roleRank[minimum]
}

// MemberRole exposes the user's role in an organisation for other services
func (s *OrgService) MemberRole(orgID, userID int64) (string, error) {
	return s.orgRepo.GetMemberRole(orgID, userID)
}
