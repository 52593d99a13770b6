package services

import (
	"context"
	"sync"
	"time"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/sirupsen/logrus"
)

// How long the identity lookup may take before the whole load is abandoned.
const identityTimeout = 4 * time.Second

// How many transactions a single load will carry.
const transactionFetchLimit = 500

type bootstrapStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetPersonalAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	GetGroupAccounts(ctx context.Context) ([]*models.Account, error)
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	GetAllCategories(ctx context.Context) ([]*models.Category, error)
	GetNotificationsForUser(ctx context.Context, userID string) ([]*models.Notification, error)
	GetFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error)
}

// Snapshot is everything a client needs to render after sign-in. Accounts
// holds personal wallets followed by shared funds.
type Snapshot struct {
	User          *models.User           `json:"user"`
	Accounts      []*models.Account      `json:"accounts"`
	Transactions  []*models.Transaction  `json:"transactions"`
	Categories    []*models.Category     `json:"categories"`
	Notifications []*models.Notification `json:"notifications"`
	Friendships   []*models.Friendship   `json:"friendships"`
}

// Bootstrap assembles the initial client snapshot. Identity resolves first
// under a hard timeout; the data sections then load in parallel and a
// failed section degrades to empty rather than failing the whole load.
type Bootstrap struct {
	store bootstrapStore
	log   *logrus.Logger
}

func NewBootstrap(store bootstrapStore, log *logrus.Logger) *Bootstrap {
	return &Bootstrap{store: store, log: log}
}

// LoadAll builds the snapshot for a signed-in user.
func (b *Bootstrap) LoadAll(ctx context.Context, userID string) (*Snapshot, error) {
	idCtx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()
	user, err := b.store.GetUserByID(idCtx, userID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{User: user}
	var personal, shared []*models.Account

	var wg sync.WaitGroup
	section := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				b.log.WithError(err).WithFields(logrus.Fields{
					"section": name,
					"user_id": userID,
				}).Warn("Bootstrap section failed, serving empty")
			}
		}()
	}

	section("personal_accounts", func() error {
		var err error
		personal, err = b.store.GetPersonalAccounts(ctx, userID)
		return err
	})
	section("group_accounts", func() error {
		var err error
		shared, err = b.store.GetGroupAccounts(ctx)
		return err
	})
	section("transactions", func() error {
		var err error
		snap.Transactions, err = b.store.GetRecentTransactions(ctx, userID, transactionFetchLimit)
		return err
	})
	section("categories", func() error {
		var err error
		snap.Categories, err = b.store.GetAllCategories(ctx)
		return err
	})
	section("notifications", func() error {
		var err error
		snap.Notifications, err = b.store.GetNotificationsForUser(ctx, userID)
		return err
	})
	section("friendships", func() error {
		var err error
		snap.Friendships, err = b.store.GetFriendshipsForUser(ctx, userID)
		return err
	})
	wg.Wait()

	snap.Accounts = append([]*models.Account{}, personal...)
	snap.Accounts = append(snap.Accounts, shared...)

	if snap.Transactions == nil {
		snap.Transactions = []*models.Transaction{}
	}
	if snap.Categories == nil {
		snap.Categories = []*models.Category{}
	}
	if snap.Notifications == nil {
		snap.Notifications = []*models.Notification{}
	}
	if snap.Friendships == nil {
		snap.Friendships = []*models.Friendship{}
	}
	return snap, nil
}
