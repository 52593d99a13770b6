package database

import (
	"context"
	"database/sql"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/shopspring/decimal"
)

func scanTransaction(row interface{ Scan(dest ...interface{}) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	var categoryID, transferID, leg sql.NullString
	err := row.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &categoryID, &t.Date, &t.Note, &t.CreatedBy, &transferID, &leg)
	if err != nil {
		return nil, err
	}
	t.CategoryID = categoryID.String
	t.TransferID = transferID.String
	return t, nil
}

const transactionColumns = `id, account_id, amount, type, category_id, date, note, created_by, transfer_id, leg`

// GetRecentTransactions returns the newest transactions visible to the
// user: activity on their own wallets plus every shared fund, capped at
// limit to bound payload size.
func GetRecentTransactions(ctx context.Context, db DBTX, userID string, limit int) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
			  WHERE account_id IN (
				SELECT id FROM accounts WHERE user_id = $1
				UNION
				SELECT id FROM group_accounts)
			  ORDER BY date DESC LIMIT $2`
	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func GetTransactionsForAccount(ctx context.Context, db DBTX, accountID string, limit int) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 ORDER BY date DESC LIMIT $2`
	rows, err := db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// InsertTransaction posts an immutable ledger row. leg is empty for plain
// entries, "debit" or "credit" for transfer legs.
func InsertTransaction(ctx context.Context, db DBTX, t *models.Transaction, leg string) error {
	query := `INSERT INTO transactions (account_id, amount, type, category_id, date, note, created_by, transfer_id, leg)
			  VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, NULLIF($8, '')::uuid, NULLIF($9, ''))
			  RETURNING id`
	return db.QueryRowContext(ctx, query,
		t.AccountID, t.Amount, t.Type, t.CategoryID, t.Date, t.Note, t.CreatedBy, t.TransferID, leg,
	).Scan(&t.ID)
}

// SumPostingsForAccount recomputes the net effect of all posted rows on an
// account: income and transfer credits add, expenses and transfer debits
// subtract. Used by the balance audit.
func SumPostingsForAccount(ctx context.Context, db DBTX, accountID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(CASE
				WHEN type = 'income' THEN amount
				WHEN type = 'expense' THEN -amount
				WHEN leg = 'credit' THEN amount
				WHEN leg = 'debit' THEN -amount
				ELSE 0 END), 0)
			  FROM transactions WHERE account_id = $1`
	err := db.QueryRowContext(ctx, query, accountID).Scan(&sum)
	return sum, err
}

// OpeningBalance returns the balance an account was created with.
func OpeningBalance(ctx context.Context, db DBTX, kind models.AccountType, accountID string) (decimal.Decimal, error) {
	var opening decimal.Decimal
	query := `SELECT opening_balance FROM ` + accountTable(kind) + ` WHERE id = $1`
	err := db.QueryRowContext(ctx, query, accountID).Scan(&opening)
	return opening, err
}
