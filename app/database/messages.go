package database

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
)

// GetConversation returns the message history between two users, oldest
// first, regardless of which side sent each message.
func GetConversation(ctx context.Context, db DBTX, userA, userB string) ([]*models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, content, is_read, created_at
			  FROM messages
			  WHERE (sender_id = $1 AND receiver_id = $2)
			     OR (sender_id = $2 AND receiver_id = $1)
			  ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func InsertMessage(ctx context.Context, db DBTX, m *models.Message) error {
	query := `INSERT INTO messages (sender_id, receiver_id, content)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, m.Content).Scan(&m.ID, &m.CreatedAt)
}

// MarkConversationRead flags every message the peer sent to the reader as
// read. Returns the number of rows touched.
func MarkConversationRead(ctx context.Context, db DBTX, readerID, peerID string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE messages SET is_read = true
		 WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`,
		readerID, peerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUnreadMessages returns how many unread messages the user has, per
// sender, for the chat badge.
func CountUnreadMessages(ctx context.Context, db DBTX, userID string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sender_id, COUNT(*) FROM messages
		 WHERE receiver_id = $1 AND is_read = false
		 GROUP BY sender_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var sender string
		var n int
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, err
		}
		counts[sender] = n
	}
	return counts, rows.Err()
}
