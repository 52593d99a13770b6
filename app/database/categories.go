package database

import (
	"context"
	"fmt"

	"github.com/Miian1/FamilyFinance/app/models"
)

func GetAllCategories(ctx context.Context, db DBTX) ([]*models.Category, error) {
	query := `SELECT id, name, type, color, icon, is_default FROM categories ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsDefault); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FirstCategoryOfType returns a fallback category when the caller omits one.
func FirstCategoryOfType(ctx context.Context, db DBTX, kind models.TransactionType) (*models.Category, error) {
	c := &models.Category{}
	query := `SELECT id, name, type, color, icon, is_default FROM categories WHERE type = $1 ORDER BY is_default DESC, name ASC LIMIT 1`
	err := db.QueryRowContext(ctx, query, kind).Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsDefault)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func GetCategoryByID(ctx context.Context, db DBTX, id string) (*models.Category, error) {
	c := &models.Category{}
	query := `SELECT id, name, type, color, icon, is_default FROM categories WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsDefault)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func CreateCategory(ctx context.Context, db DBTX, c *models.Category) error {
	query := `INSERT INTO categories (name, type, color, icon, is_default)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	return db.QueryRowContext(ctx, query, c.Name, c.Type, c.Color, c.Icon, c.IsDefault).Scan(&c.ID)
}

func DeleteCategory(ctx context.Context, db DBTX, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
