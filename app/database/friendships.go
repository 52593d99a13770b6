package database

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
)

const friendshipColumns = `id, requester_id, receiver_id, status, created_at`

func scanFriendship(row interface{ Scan(dest ...interface{}) error }) (*models.Friendship, error) {
	f := &models.Friendship{}
	err := row.Scan(&f.ID, &f.RequesterID, &f.ReceiverID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetFriendshipsForUser returns every friendship the user participates in,
// in either direction.
func GetFriendshipsForUser(ctx context.Context, db DBTX, userID string) ([]*models.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships
			  WHERE requester_id = $1 OR receiver_id = $1
			  ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friendships := []*models.Friendship{}
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		friendships = append(friendships, f)
	}
	return friendships, rows.Err()
}

// FindFriendshipBetween looks for a row linking the two users in either
// direction.
func FindFriendshipBetween(ctx context.Context, db DBTX, userA, userB string) (*models.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships
			  WHERE (requester_id = $1 AND receiver_id = $2)
			     OR (requester_id = $2 AND receiver_id = $1)`
	return scanFriendship(db.QueryRowContext(ctx, query, userA, userB))
}

func GetFriendshipByID(ctx context.Context, db DBTX, id string) (*models.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`
	return scanFriendship(db.QueryRowContext(ctx, query, id))
}

func CreateFriendship(ctx context.Context, db DBTX, f *models.Friendship) error {
	query := `INSERT INTO friendships (requester_id, receiver_id, status)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, f.RequesterID, f.ReceiverID, f.Status).Scan(&f.ID, &f.CreatedAt)
}

func SetFriendshipStatus(ctx context.Context, db DBTX, id string, status models.RequestStatus) error {
	_, err := db.ExecContext(ctx, `UPDATE friendships SET status = $1 WHERE id = $2`, status, id)
	return err
}

func DeleteFriendship(ctx context.Context, db DBTX, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	return err
}
