package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ledgerStore interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetGroupAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	FirstPersonalAccountForUser(ctx context.Context, userID string) (*models.Account, error)
	FirstCategoryOfType(ctx context.Context, txType models.TransactionType) (*models.Category, error)
	SetAccountSuspended(ctx context.Context, kind models.AccountType, id string, suspended bool) error
	ApplyEntry(ctx context.Context, t *models.Transaction, kind models.AccountType, delta decimal.Decimal) error
	ApplyTransfer(ctx context.Context, debit, credit *models.Transaction, srcKind, dstKind models.AccountType) error
}

// Ledger posts transactions and keeps account balances in step with them.
// All balance movement goes through relative increments inside a database
// transaction, so concurrent postings never overwrite each other.
type Ledger struct {
	store    ledgerStore
	notifier *Notifier
	log      *logrus.Logger
}

func NewLedger(store ledgerStore, notifier *Notifier, log *logrus.Logger) *Ledger {
	return &Ledger{store: store, notifier: notifier, log: log}
}

// EntryInput describes a simple income or expense posting.
type EntryInput struct {
	AccountID  string
	Amount     decimal.Decimal
	Type       models.TransactionType
	CategoryID string
	Note       string
	Date       time.Time
}

// TransferInput describes a transfer. Recipient may be a shared account ID,
// a user ID, or a personal account ID; resolution is tried in that order.
type TransferInput struct {
	SourceAccountID string
	Recipient       string
	Amount          decimal.Decimal
	CategoryID      string
	Note            string
}

// RecordEntry validates and posts a single income or expense entry,
// adjusting the account balance atomically with the insert.
func (l *Ledger) RecordEntry(ctx context.Context, userID string, in EntryInput) (*models.Transaction, error) {
	if in.Type != models.TransactionExpense && in.Type != models.TransactionIncome {
		return nil, Validationf("type must be expense or income")
	}
	if !in.Amount.IsPositive() {
		return nil, Validationf("amount must be greater than zero")
	}

	account, err := l.store.GetAccountByID(ctx, in.AccountID)
	if database.IsNoRows(err) {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, in.AccountID)
	}
	if err != nil {
		return nil, err
	}
	if err := checkAccess(account, userID); err != nil {
		return nil, err
	}
	if account.IsSuspended {
		return nil, ErrSuspendedAccount
	}

	categoryID := in.CategoryID
	if categoryID == "" {
		cat, err := l.store.FirstCategoryOfType(ctx, in.Type)
		if err == nil {
			categoryID = cat.ID
		} else if !database.IsNoRows(err) {
			return nil, err
		}
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	t := &models.Transaction{
		AccountID:  account.ID,
		Amount:     in.Amount,
		Type:       in.Type,
		CategoryID: categoryID,
		Date:       date,
		Note:       in.Note,
		CreatedBy:  userID,
	}

	delta := in.Amount
	if in.Type == models.TransactionExpense {
		delta = delta.Neg()
	}
	if err := l.store.ApplyEntry(ctx, t, account.Type, delta); err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"type":       in.Type,
		"amount":     in.Amount.StringFixed(2),
	}).Info("Posted ledger entry")

	if account.Type == models.AccountShared {
		l.notifySharedActivity(ctx, account, userID, t)
	}
	return t, nil
}

// RecordTransfer moves money between two accounts. Both legs and both
// balance adjustments commit or roll back together. Returns the debit and
// credit legs.
func (l *Ledger) RecordTransfer(ctx context.Context, userID string, in TransferInput) (*models.Transaction, *models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, nil, Validationf("amount must be greater than zero")
	}

	source, err := l.store.GetAccountByID(ctx, in.SourceAccountID)
	if database.IsNoRows(err) {
		return nil, nil, fmt.Errorf("%w: account %s", ErrNotFound, in.SourceAccountID)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := checkAccess(source, userID); err != nil {
		return nil, nil, err
	}
	if source.IsSuspended {
		return nil, nil, ErrSuspendedAccount
	}

	target, targetName, err := l.resolveRecipient(ctx, in.Recipient)
	if err != nil {
		return nil, nil, err
	}
	if target.ID == source.ID {
		return nil, nil, Validationf("cannot transfer an account to itself")
	}
	if target.IsSuspended {
		return nil, nil, ErrSuspendedAccount
	}

	sender, err := l.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	categoryID := in.CategoryID
	if categoryID == "" {
		cat, err := l.store.FirstCategoryOfType(ctx, models.TransactionTransfer)
		if err == nil {
			categoryID = cat.ID
		} else if !database.IsNoRows(err) {
			return nil, nil, err
		}
	}

	debitNote := "Transfer to " + targetName
	creditNote := "Transfer from " + source.Name
	if in.Note != "" {
		debitNote += ": " + in.Note
		creditNote += ": " + in.Note
	}

	transferID := uuid.NewString()
	now := time.Now()
	debit := &models.Transaction{
		AccountID:  source.ID,
		Amount:     in.Amount,
		Type:       models.TransactionTransfer,
		CategoryID: categoryID,
		Date:       now,
		Note:       debitNote,
		CreatedBy:  userID,
		TransferID: transferID,
	}
	credit := &models.Transaction{
		AccountID:  target.ID,
		Amount:     in.Amount,
		Type:       models.TransactionTransfer,
		CategoryID: categoryID,
		Date:       now,
		Note:       creditNote,
		CreatedBy:  userID,
		TransferID: transferID,
	}

	if err := l.store.ApplyTransfer(ctx, debit, credit, source.Type, target.Type); err != nil {
		return nil, nil, err
	}

	l.log.WithFields(logrus.Fields{
		"transfer_id": transferID,
		"from":        source.ID,
		"to":          target.ID,
		"amount":      in.Amount.StringFixed(2),
	}).Info("Posted transfer")

	if recipient := SharedAccountTarget(target, userID); recipient != "" {
		l.notifier.Notify(ctx, &models.Notification{
			UserID:  recipient,
			Title:   "Transfer received",
			Message: fmt.Sprintf("%s sent %s %s to %s", sender.Name, in.Amount.StringFixed(2), target.Currency, target.Name),
			Type:    models.NotificationTransaction,
			Data: models.JSONMap{
				"account_id":  target.ID,
				"transfer_id": transferID,
			},
		})
	}
	return debit, credit, nil
}

// ToggleSuspension freezes or unfreezes an account. Allowed for the account
// owner and admins; suspended accounts reject all postings until released.
func (l *Ledger) ToggleSuspension(ctx context.Context, actor *models.User, accountID string, suspend bool) error {
	account, err := l.store.GetAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if account.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := l.store.SetAccountSuspended(ctx, account.Type, account.ID, suspend); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"suspended":  suspend,
		"by":         actor.ID,
	}).Info("Toggled account suspension")

	if suspend && account.UserID != actor.ID {
		l.notifier.Notify(ctx, &models.Notification{
			UserID:  account.UserID,
			Title:   "Account suspended",
			Message: fmt.Sprintf("Your account %q has been suspended by an administrator", account.Name),
			Type:    models.NotificationAlert,
			Data:    models.JSONMap{"account_id": account.ID},
		})
	}
	return nil
}

// resolveRecipient maps a recipient identifier to a destination account.
// Tried in order: shared account ID, user ID (their oldest personal
// account), personal account ID.
func (l *Ledger) resolveRecipient(ctx context.Context, recipient string) (*models.Account, string, error) {
	if recipient == "" {
		return nil, "", Validationf("recipient is required")
	}

	if account, err := l.store.GetGroupAccountByID(ctx, recipient); err == nil {
		return account, account.Name, nil
	} else if !database.IsNoRows(err) {
		return nil, "", err
	}

	if user, err := l.store.GetUserByID(ctx, recipient); err == nil {
		account, err := l.store.FirstPersonalAccountForUser(ctx, user.ID)
		if database.IsNoRows(err) {
			return nil, "", fmt.Errorf("%w: %s has no personal account", ErrRecipientNotFound, user.Name)
		}
		if err != nil {
			return nil, "", err
		}
		return account, user.Name, nil
	} else if !database.IsNoRows(err) {
		return nil, "", err
	}

	if account, err := l.store.GetAccountByID(ctx, recipient); err == nil {
		return account, account.Name, nil
	} else if !database.IsNoRows(err) {
		return nil, "", err
	}

	return nil, "", fmt.Errorf("%w: %s", ErrRecipientNotFound, recipient)
}

func (l *Ledger) notifySharedActivity(ctx context.Context, account *models.Account, actorID string, t *models.Transaction) {
	recipient := SharedAccountTarget(account, actorID)
	if recipient == "" {
		return
	}
	actor, err := l.store.GetUserByID(ctx, actorID)
	if err != nil {
		l.log.WithError(err).Warn("Failed to load actor for shared account notification")
		return
	}
	verb := "added"
	if t.Type == models.TransactionExpense {
		verb = "spent"
	}
	l.notifier.Notify(ctx, &models.Notification{
		UserID:  recipient,
		Title:   "Family fund activity",
		Message: fmt.Sprintf("%s %s %s %s on %s", actor.Name, verb, t.Amount.StringFixed(2), account.Currency, account.Name),
		Type:    models.NotificationTransaction,
		Data:    models.JSONMap{"account_id": account.ID},
	})
}

func checkAccess(account *models.Account, userID string) error {
	if account.UserID == userID || account.HasMember(userID) {
		return nil
	}
	return ErrForbidden
}
