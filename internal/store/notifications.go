package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockroom-app/stockroom/internal/model"
)

// AppendNotification appends an unread notification to a user's log.
func AppendNotification(ctx context.Context, db *sql.DB, userID int64, message string) (*model.Notification, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message) VALUES (?, ?)`,
		userID, message,
	)
	if err != nil {
		return nil, fmt.Errorf("appending notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting notification id: %w", err)
	}

	n := &model.Notification{}
	err = db.QueryRowContext(ctx,
		`SELECT id, user_id, message, is_read, created_at FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting notification: %w", err)
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first.
func ListNotifications(ctx context.Context, db *sql.DB, userID int64, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at
	          FROM notifications WHERE user_id = ?`
	args := []any{userID}

	if unreadOnly {
		query += ` AND is_read = 0`
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead idempotently marks one notification read. The
// notification must belong to userID; marking someone else's is forbidden.
func MarkNotificationRead(ctx context.Context, db *sql.DB, id, userID int64) error {
	var owner int64
	err := db.QueryRowContext(ctx,
		`SELECT user_id FROM notifications WHERE id = ?`, id,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return fmt.Errorf("notification %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting notification: %w", err)
	}
	if owner != userID {
		return fmt.Errorf("notification %d: %w", id, model.ErrForbidden)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification owned by userID
// as read and returns the number affected.
func MarkAllNotificationsRead(ctx context.Context, db *sql.DB, userID int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting marked notifications: %w", err)
	}
	return count, nil
}

// CountUnreadNotifications returns the number of unread notifications for a user.
func CountUnreadNotifications(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}
