package services

import (
	"context"
	"testing"
	"time"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeReadNotifications(t *testing.T) {
	store := newMockStore()
	user := store.addUser("Alice", "alice@example.com", models.RoleMember)

	old := &models.Notification{UserID: user.ID, Title: "old", IsRead: true}
	require.NoError(t, store.InsertNotification(context.Background(), old))
	old.CreatedAt = time.Now().Add(-notificationRetention - 24*time.Hour)

	oldUnread := &models.Notification{UserID: user.ID, Title: "old unread"}
	require.NoError(t, store.InsertNotification(context.Background(), oldUnread))
	oldUnread.CreatedAt = old.CreatedAt

	fresh := &models.Notification{UserID: user.ID, Title: "fresh", IsRead: true}
	require.NoError(t, store.InsertNotification(context.Background(), fresh))

	s := NewScheduler(store, testLogger())
	s.purgeNotifications()

	remaining := store.notificationsFor(user.ID)
	assert.Len(t, remaining, 2, "only the old read notification is purged")
	for _, n := range remaining {
		assert.NotEqual(t, "old", n.Title)
	}
}

func TestAuditBalancesDetectsDrift(t *testing.T) {
	store := newMockStore()
	user := store.addUser("Alice", "alice@example.com", models.RoleMember)
	account := store.addAccount(user, "Wallet", models.AccountPersonal, "0")

	// Post income of 40: balance and postings agree.
	require.NoError(t, store.ApplyEntry(context.Background(), &models.Transaction{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(40),
		Type:      models.TransactionIncome,
	}, models.AccountPersonal, decimal.NewFromInt(40)))

	posted, err := store.SumPostingsForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(posted), "balance matches postings")

	// A balance write that bypassed the ledger creates drift.
	account.Balance = account.Balance.Add(decimal.NewFromInt(5))
	posted, err = store.SumPostingsForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.False(t, account.Balance.Equal(posted))

	// The audit run just logs; it must not error or change balances.
	s := NewScheduler(store, testLogger())
	s.auditBalances()
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(45)))
}

func TestAuditCountsTransferLegs(t *testing.T) {
	store := newMockStore()
	user := store.addUser("Alice", "alice@example.com", models.RoleMember)
	src := store.addAccount(user, "Src", models.AccountPersonal, "100")
	dst := store.addAccount(user, "Dst", models.AccountPersonal, "0")

	debit := &models.Transaction{AccountID: src.ID, Amount: decimal.NewFromInt(30), Type: models.TransactionTransfer, TransferID: "t1"}
	credit := &models.Transaction{AccountID: dst.ID, Amount: decimal.NewFromInt(30), Type: models.TransactionTransfer, TransferID: "t1"}
	require.NoError(t, store.ApplyTransfer(context.Background(), debit, credit, models.AccountPersonal, models.AccountPersonal))

	posted, err := store.SumPostingsForAccount(context.Background(), src.ID)
	require.NoError(t, err)
	assert.True(t, posted.Equal(decimal.NewFromInt(-30)), "debit leg counts negative, got %s", posted)

	posted, err = store.SumPostingsForAccount(context.Background(), dst.ID)
	require.NoError(t, err)
	assert.True(t, posted.Equal(decimal.NewFromInt(30)), "credit leg counts positive")
}
