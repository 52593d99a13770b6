package database

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// accountTable returns the backing table for an account type. Personal
// wallets and family funds live in separate tables that share a column
// layout (group_accounts additionally carries the member list).
func accountTable(kind models.AccountType) string {
	if kind == models.AccountShared {
		return "group_accounts"
	}
	return "accounts"
}

func GetPersonalAccounts(ctx context.Context, db DBTX, userID string) ([]*models.Account, error) {
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, created_at
			  FROM accounts WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		a := &models.Account{Type: models.AccountPersonal}
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetGroupAccounts returns every shared fund. Funds are visible to all
// users so anyone can ask to join one; posting into them still requires
// membership.
func GetGroupAccounts(ctx context.Context, db DBTX) ([]*models.Account, error) {
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, members, created_at
			  FROM group_accounts ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		a := &models.Account{Type: models.AccountShared}
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, pq.Array(&a.Members), &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetGroupAccountsForUser returns only the shared funds the user owns or
// belongs to.
func GetGroupAccountsForUser(ctx context.Context, db DBTX, userID string) ([]*models.Account, error) {
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, members, created_at
			  FROM group_accounts WHERE user_id = $1 OR $1 = ANY(members) ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		a := &models.Account{Type: models.AccountShared}
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, pq.Array(&a.Members), &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func GetPersonalAccountByID(ctx context.Context, db DBTX, id string) (*models.Account, error) {
	a := &models.Account{Type: models.AccountPersonal}
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, created_at
			  FROM accounts WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func GetGroupAccountByID(ctx context.Context, db DBTX, id string) (*models.Account, error) {
	a := &models.Account{Type: models.AccountShared}
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, members, created_at
			  FROM group_accounts WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, pq.Array(&a.Members), &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAccountByID looks an account up in either table, shared funds first.
func GetAccountByID(ctx context.Context, db DBTX, id string) (*models.Account, error) {
	if a, err := GetGroupAccountByID(ctx, db, id); err == nil {
		return a, nil
	} else if !IsNoRows(err) {
		return nil, err
	}
	return GetPersonalAccountByID(ctx, db, id)
}

// FirstPersonalAccountForUser returns the user's oldest personal wallet.
func FirstPersonalAccountForUser(ctx context.Context, db DBTX, userID string) (*models.Account, error) {
	a := &models.Account{Type: models.AccountPersonal}
	query := `SELECT id, user_id, name, balance, currency, color, is_suspended, created_at
			  FROM accounts WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`
	err := db.QueryRowContext(ctx, query, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.Color, &a.IsSuspended, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func CreatePersonalAccount(ctx context.Context, db DBTX, a *models.Account) error {
	a.Type = models.AccountPersonal
	query := `INSERT INTO accounts (user_id, name, balance, opening_balance, currency, color, is_suspended)
			  VALUES ($1, $2, $3, $3, $4, $5, false)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, a.UserID, a.Name, a.Balance, a.Currency, a.Color).
		Scan(&a.ID, &a.CreatedAt)
}

func CreateGroupAccount(ctx context.Context, db DBTX, a *models.Account) error {
	a.Type = models.AccountShared
	if a.Members == nil {
		a.Members = []string{}
	}
	query := `INSERT INTO group_accounts (user_id, name, balance, opening_balance, currency, color, is_suspended, members)
			  VALUES ($1, $2, $3, $3, $4, $5, false, $6)
			  RETURNING id, created_at`
	return db.QueryRowContext(ctx, query, a.UserID, a.Name, a.Balance, a.Currency, a.Color, pq.Array(a.Members)).
		Scan(&a.ID, &a.CreatedAt)
}

// SetAccountSuspended updates the suspension flag and returns the new value.
func SetAccountSuspended(ctx context.Context, db DBTX, kind models.AccountType, id string, suspended bool) error {
	query := `UPDATE ` + accountTable(kind) + ` SET is_suspended = $1 WHERE id = $2`
	res, err := db.ExecContext(ctx, query, suspended, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRows
	}
	return nil
}

// AdjustAccountBalance applies a server-side relative increment so
// concurrent postings never lose an update.
func AdjustAccountBalance(ctx context.Context, db DBTX, kind models.AccountType, id string, delta decimal.Decimal) error {
	query := `UPDATE ` + accountTable(kind) + ` SET balance = balance + $1 WHERE id = $2`
	res, err := db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRows
	}
	return nil
}

// AddGroupMember appends a member in a single guarded statement: a no-op
// when the user is already listed or owns the fund. Reports whether the
// member list actually changed.
func AddGroupMember(ctx context.Context, db DBTX, accountID, userID string) (bool, error) {
	query := `UPDATE group_accounts
			  SET members = array_append(members, $1)
			  WHERE id = $2 AND user_id <> $1 AND NOT ($1 = ANY(members))`
	res, err := db.ExecContext(ctx, query, userID, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveGroupMember removes a member atomically, reporting whether a row
// was touched.
func RemoveGroupMember(ctx context.Context, db DBTX, accountID, userID string) (bool, error) {
	query := `UPDATE group_accounts
			  SET members = array_remove(members, $1)
			  WHERE id = $2 AND $1 = ANY(members)`
	res, err := db.ExecContext(ctx, query, userID, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
