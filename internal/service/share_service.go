package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/security"
	"studyhall/internal/validation"
)

var (
	ErrInviteNotFound = errors.New("invite code not found")
	ErrInviteAccepted = errors.New("invite has already been accepted")
)

// ShareService handles sharing repositories with users outside the owning
// organisation via invite codes.
type ShareService struct {
	shareRepo        *repository.ShareRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	emailService     *EmailService
	library          *LibraryService
}

// NewShareService creates a new share service
func NewShareService(
	shareRepo *repository.ShareRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	emailService *EmailService,
	library *LibraryService,
) *ShareService {
	return &ShareService{
		shareRepo:        shareRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
		library:          library,
	}
}

// CreateShare invites an email address to a repository. Requires edit access.
func (s *ShareService) CreateShare(ctx context.Context, userID, repoID int64, email, role string) (*models.Share, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if role != models.ShareRoleViewer && role != models.ShareRoleEditor {
		return nil, validation.ValidationError{Field: "role", Message: "role must be viewer or editor"}
	}

	repo, canEdit, err := s.library.Access(userID, repoID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, ErrForbidden
	}

	code, err := security.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	share, err := s.shareRepo.CreateShare(repoID, code, strings.ToLower(email), role, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	// Notify the invitee if they already have an account; email either way
	if invitee, err := s.userRepo.GetUserByEmail(share.Email); err == nil && invitee != nil {
		message := fmt.Sprintf("You have been invited to study %q (code %s)", repo.Name, share.InviteCode)
		if err := s.notificationRepo.CreateNotification(invitee.ID, models.NotificationShareInvite, message); err != nil {
			log.Printf("Failed to create invite notification: %v", err)
		}
	}
	if s.emailService != nil && s.emailService.IsEnabled() {
		if err := s.emailService.SendShareInvitation(ctx, share.Email, repo.Name, share.InviteCode); err != nil {
			log.Printf("Failed to send invite email to %s: %v", share.Email, err)
		}
	}

	return share, nil
}

// AcceptShare redeems an invite code for the user. The invite email must
// match the user's account email.
func (s *ShareService) AcceptShare(userID int64, inviteCode string) (*models.Share, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, validation.ValidationError{Field: "invite_code", Message: "invite code is required"}
	}

	share, err := s.shareRepo.GetShareByInviteCode(inviteCode)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrInviteNotFound
	}
	if share.IsAccepted() {
		return nil, ErrInviteAccepted
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !strings.EqualFold(user.Email, share.Email) {
		return nil, ErrForbidden
	}

	if err := s.shareRepo.AcceptShare(share.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to accept share: %w", err)
	}
	return s.shareRepo.GetShare(share.ID)
}

// ListShares returns a repository's shares. Requires edit access.
func (s *ShareService) ListShares(userID, repoID int64) ([]models.Share, error) {
	_, canEdit, err := s.library.Access(userID, repoID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, ErrForbidden
	}
	return s.shareRepo.ListSharesForRepository(repoID)
}

// ListAccepted returns the shares the user has accepted
func (s *ShareService) ListAccepted(userID int64) ([]models.Share, error) {
	return s.shareRepo.ListAcceptedSharesForUser(userID)
}

// RevokeShare deletes a share. Requires edit access on the repository.
func (s *ShareService) RevokeShare(userID, shareID int64) error {
	share, err := s.shareRepo.GetShare(shareID)
	if err != nil {
		return err
	}
	if share == nil {
		return ErrNotFound
	}
	_, canEdit, err := s.library.Access(userID, share.RepositoryID)
	if err != nil {
		return err
	}
	if !canEdit {
		return ErrForbidden
	}
	return s.shareRepo.DeleteShare(shareID)
}
