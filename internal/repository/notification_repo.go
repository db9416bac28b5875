package repository

import (
	"studyhall/internal/database"
	"studyhall/internal/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db database.DBTX
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts a notification for a user
func (r *NotificationRepository) CreateNotification(userID int64, kind, message string) error {
	query := "INSERT INTO notifications (user_id, kind, message) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, userID, kind, message)
	return err
}

// ListNotifications returns a user's notifications, most recent first
func (r *NotificationRepository) ListNotifications(userID int64, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, kind, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
	`
	if unreadOnly {
		query += " AND is_read = " + r.db.GetDialect().BoolValue(false)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks a single notification as read
func (r *NotificationRepository) MarkRead(id, userID int64) error {
	_, err := r.db.Exec("UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?", true, id, userID)
	return err
}

// MarkAllRead marks every notification of a user as read
func (r *NotificationRepository) MarkAllRead(userID int64) error {
	_, err := r.db.Exec("UPDATE notifications SET is_read = ? WHERE user_id = ?", true, userID)
	return err
}

// CountUnread returns the number of unread notifications for a user
func (r *NotificationRepository) CountUnread(userID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = " + r.db.GetDialect().BoolValue(false)
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}
