package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/Miian1/FamilyFinance/app/models"
)

func scanNotification(row interface{ Scan(dest ...interface{}) error }) (*models.Notification, error) {
	n := &models.Notification{}
	var status sql.NullString
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &status, &n.IsRead, &n.Data, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	if status.Valid {
		n.Status = models.RequestStatus(status.String)
	}
	return n, nil
}

const notificationColumns = `id, user_id, title, message, type, status, is_read, data, created_at`

func GetNotificationsForUser(ctx context.Context, db DBTX, userID string) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func GetNotificationByID(ctx context.Context, db DBTX, id string) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(db.QueryRowContext(ctx, query, id))
}

func InsertNotification(ctx context.Context, db DBTX, n *models.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, type, status, is_read, data)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Type, string(n.Status), n.IsRead, n.Data).
		Scan(&n.ID, &n.CreatedAt)
}

// InsertNotifications bulk-inserts drafts one statement at a time; the first
// failure aborts the rest.
func InsertNotifications(ctx context.Context, db DBTX, drafts []*models.Notification) error {
	for _, n := range drafts {
		if err := InsertNotification(ctx, db, n); err != nil {
			return err
		}
	}
	return nil
}

func MarkNotificationRead(ctx context.Context, db DBTX, id string) error {
	_, err := db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	return err
}

// SetNotificationStatus records the workflow outcome and marks the row read.
func SetNotificationStatus(ctx context.Context, db DBTX, id string, status models.RequestStatus) error {
	_, err := db.ExecContext(ctx, `UPDATE notifications SET status = $1, is_read = true WHERE id = $2`, status, id)
	return err
}

func DeleteNotificationsForUser(ctx context.Context, db DBTX, userID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}

// PurgeReadNotificationsBefore drops read notifications older than cutoff.
// Returns the number of rows removed.
func PurgeReadNotificationsBefore(ctx context.Context, db DBTX, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE is_read = true AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
