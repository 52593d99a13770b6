package database

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/shopspring/decimal"
)

// AuditRow is a balance snapshot of one account for the drift audit.
type AuditRow struct {
	ID             string
	Name           string
	Kind           models.AccountType
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
}

// ListAccountsForAudit returns every account across both tables with its
// stored and opening balances.
func ListAccountsForAudit(ctx context.Context, db DBTX) ([]*AuditRow, error) {
	query := `SELECT id, name, 'personal', balance, opening_balance FROM accounts
			  UNION ALL
			  SELECT id, name, 'shared', balance, opening_balance FROM group_accounts`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*AuditRow{}
	for rows.Next() {
		r := &AuditRow{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Kind, &r.Balance, &r.OpeningBalance); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
