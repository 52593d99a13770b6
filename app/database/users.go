package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Miian1/FamilyFinance/app/models"
)

// defaultAvatar mirrors the placeholder generated for profiles without an
// uploaded avatar.
func defaultAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var role, avatar *string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &role, &avatar, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = models.RoleMember
	if role != nil && *role != "" {
		user.Role = models.Role(*role)
	}
	if avatar != nil && *avatar != "" {
		user.Avatar = *avatar
	} else {
		user.Avatar = defaultAvatar(user.Name)
	}
	return user, nil
}

const userColumns = `id, name, email, password, role, avatar, created_at`

func GetUserByEmail(ctx context.Context, db DBTX, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE email = $1`
	return scanUser(db.QueryRowContext(ctx, query, email))
}

func GetUserByID(ctx context.Context, db DBTX, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE id = $1`
	return scanUser(db.QueryRowContext(ctx, query, userID))
}

func GetAllUsers(ctx context.Context, db DBTX) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser inserts a profile row. The caller decides the role and must
// pass an already-hashed password.
func CreateUser(ctx context.Context, db DBTX, user *models.User) error {
	if user.Avatar == "" {
		user.Avatar = defaultAvatar(user.Name)
	}
	query := `INSERT INTO profiles (name, email, password, role, avatar)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password, user.Role, user.Avatar).
		Scan(&user.ID, &user.CreatedAt)
}

func UpdateUserPassword(ctx context.Context, db DBTX, userID, hashedPassword string) error {
	query := `UPDATE profiles SET password = $1 WHERE id = $2`
	_, err := db.ExecContext(ctx, query, hashedPassword, userID)
	return err
}

// CountUsers returns the number of registered profiles.
func CountUsers(ctx context.Context, db DBTX) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}
