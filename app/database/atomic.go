package database

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/shopspring/decimal"
)

// ApplyEntry inserts one transaction row and moves the account balance by
// delta inside a single database transaction.
func (s *Store) ApplyEntry(ctx context.Context, t *models.Transaction, kind models.AccountType, delta decimal.Decimal) error {
	return s.InTx(ctx, func(q *Querier) error {
		if err := InsertTransaction(ctx, q.db, t, ""); err != nil {
			return err
		}
		return AdjustAccountBalance(ctx, q.db, kind, t.AccountID, delta)
	})
}

// ApplyTransfer writes both transfer legs and moves both balances as one
// unit. Either all four writes commit or none do.
func (s *Store) ApplyTransfer(ctx context.Context, debit, credit *models.Transaction, srcKind, dstKind models.AccountType) error {
	return s.InTx(ctx, func(q *Querier) error {
		if err := InsertTransaction(ctx, q.db, debit, "debit"); err != nil {
			return err
		}
		if err := InsertTransaction(ctx, q.db, credit, "credit"); err != nil {
			return err
		}
		if err := AdjustAccountBalance(ctx, q.db, srcKind, debit.AccountID, debit.Amount.Neg()); err != nil {
			return err
		}
		return AdjustAccountBalance(ctx, q.db, dstKind, credit.AccountID, credit.Amount)
	})
}
