package service

import (
	"studyhall/internal/models"
	"studyhall/internal/repository"
)

// NotificationService handles user notification business logic
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List returns the user's notifications, optionally unread only
func (s *NotificationService) List(userID int64, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.ListNotifications(userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(userID, notificationID int64) error {
	return s.notificationRepo.MarkRead(notificationID, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllRead(userID int64) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// UnreadCount returns the user's unread notification count
func (s *NotificationService) UnreadCount(userID int64) (int, error) {
	return s.notificationRepo.CountUnread(userID)
}
