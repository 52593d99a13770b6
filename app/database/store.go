package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/shopspring/decimal"
)

// Querier wraps the package-level query functions behind a single handle so
// the service layer can run the same operations against the pool or against
// an open transaction.
type Querier struct {
	db DBTX
}

// Store is the pool-backed Querier. It adds InTx for operations that must
// commit or roll back as a unit.
type Store struct {
	Querier
	pool *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{Querier: Querier{db: db}, pool: db}
}

// InTx runs fn inside a database transaction. Any error from fn rolls the
// transaction back and is returned unchanged.
func (s *Store) InTx(ctx context.Context, fn func(q *Querier) error) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&Querier{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Users

func (q *Querier) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return GetUserByEmail(ctx, q.db, email)
}

func (q *Querier) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return GetUserByID(ctx, q.db, id)
}

func (q *Querier) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return GetAllUsers(ctx, q.db)
}

func (q *Querier) CreateUser(ctx context.Context, u *models.User) error {
	return CreateUser(ctx, q.db, u)
}

func (q *Querier) UpdateUserPassword(ctx context.Context, id, hash string) error {
	return UpdateUserPassword(ctx, q.db, id, hash)
}

func (q *Querier) CountUsers(ctx context.Context) (int, error) {
	return CountUsers(ctx, q.db)
}

// Accounts

func (q *Querier) GetPersonalAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return GetPersonalAccounts(ctx, q.db, userID)
}

func (q *Querier) GetGroupAccounts(ctx context.Context) ([]*models.Account, error) {
	return GetGroupAccounts(ctx, q.db)
}

func (q *Querier) GetGroupAccountsForUser(ctx context.Context, userID string) ([]*models.Account, error) {
	return GetGroupAccountsForUser(ctx, q.db, userID)
}

func (q *Querier) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return GetAccountByID(ctx, q.db, id)
}

func (q *Querier) GetGroupAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return GetGroupAccountByID(ctx, q.db, id)
}

func (q *Querier) FirstPersonalAccountForUser(ctx context.Context, userID string) (*models.Account, error) {
	return FirstPersonalAccountForUser(ctx, q.db, userID)
}

func (q *Querier) CreatePersonalAccount(ctx context.Context, a *models.Account) error {
	return CreatePersonalAccount(ctx, q.db, a)
}

func (q *Querier) CreateGroupAccount(ctx context.Context, a *models.Account) error {
	return CreateGroupAccount(ctx, q.db, a)
}

func (q *Querier) SetAccountSuspended(ctx context.Context, kind models.AccountType, id string, suspended bool) error {
	return SetAccountSuspended(ctx, q.db, kind, id, suspended)
}

func (q *Querier) AdjustAccountBalance(ctx context.Context, kind models.AccountType, id string, delta decimal.Decimal) error {
	return AdjustAccountBalance(ctx, q.db, kind, id, delta)
}

func (q *Querier) AddGroupMember(ctx context.Context, accountID, userID string) (bool, error) {
	return AddGroupMember(ctx, q.db, accountID, userID)
}

func (q *Querier) RemoveGroupMember(ctx context.Context, accountID, userID string) (bool, error) {
	return RemoveGroupMember(ctx, q.db, accountID, userID)
}

func (q *Querier) OpeningBalance(ctx context.Context, kind models.AccountType, id string) (decimal.Decimal, error) {
	return OpeningBalance(ctx, q.db, kind, id)
}

func (q *Querier) ListAccountsForAudit(ctx context.Context) ([]*AuditRow, error) {
	return ListAccountsForAudit(ctx, q.db)
}

// Transactions

func (q *Querier) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	return GetRecentTransactions(ctx, q.db, userID, limit)
}

func (q *Querier) GetTransactionsForAccount(ctx context.Context, accountID string, limit int) ([]*models.Transaction, error) {
	return GetTransactionsForAccount(ctx, q.db, accountID, limit)
}

func (q *Querier) InsertTransaction(ctx context.Context, t *models.Transaction, leg string) error {
	return InsertTransaction(ctx, q.db, t, leg)
}

func (q *Querier) SumPostingsForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return SumPostingsForAccount(ctx, q.db, accountID)
}

// Categories

func (q *Querier) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	return GetAllCategories(ctx, q.db)
}

func (q *Querier) FirstCategoryOfType(ctx context.Context, txType models.TransactionType) (*models.Category, error) {
	return FirstCategoryOfType(ctx, q.db, txType)
}

func (q *Querier) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return GetCategoryByID(ctx, q.db, id)
}

func (q *Querier) CreateCategory(ctx context.Context, c *models.Category) error {
	return CreateCategory(ctx, q.db, c)
}

func (q *Querier) DeleteCategory(ctx context.Context, id string) error {
	return DeleteCategory(ctx, q.db, id)
}

// Notifications

func (q *Querier) GetNotificationsForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	return GetNotificationsForUser(ctx, q.db, userID)
}

func (q *Querier) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	return GetNotificationByID(ctx, q.db, id)
}

func (q *Querier) InsertNotification(ctx context.Context, n *models.Notification) error {
	return InsertNotification(ctx, q.db, n)
}

func (q *Querier) InsertNotifications(ctx context.Context, ns []*models.Notification) error {
	return InsertNotifications(ctx, q.db, ns)
}

func (q *Querier) MarkNotificationRead(ctx context.Context, id string) error {
	return MarkNotificationRead(ctx, q.db, id)
}

func (q *Querier) SetNotificationStatus(ctx context.Context, id string, status models.RequestStatus) error {
	return SetNotificationStatus(ctx, q.db, id, status)
}

func (q *Querier) DeleteNotificationsForUser(ctx context.Context, userID string) error {
	return DeleteNotificationsForUser(ctx, q.db, userID)
}

func (q *Querier) PurgeReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return PurgeReadNotificationsBefore(ctx, q.db, cutoff)
}

// Friendships

func (q *Querier) GetFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return GetFriendshipsForUser(ctx, q.db, userID)
}

func (q *Querier) FindFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	return FindFriendshipBetween(ctx, q.db, userA, userB)
}

func (q *Querier) GetFriendshipByID(ctx context.Context, id string) (*models.Friendship, error) {
	return GetFriendshipByID(ctx, q.db, id)
}

func (q *Querier) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	return CreateFriendship(ctx, q.db, f)
}

func (q *Querier) SetFriendshipStatus(ctx context.Context, id string, status models.RequestStatus) error {
	return SetFriendshipStatus(ctx, q.db, id, status)
}

func (q *Querier) DeleteFriendship(ctx context.Context, id string) error {
	return DeleteFriendship(ctx, q.db, id)
}

// Messages

func (q *Querier) GetConversation(ctx context.Context, userA, userB string) ([]*models.Message, error) {
	return GetConversation(ctx, q.db, userA, userB)
}

func (q *Querier) InsertMessage(ctx context.Context, m *models.Message) error {
	return InsertMessage(ctx, q.db, m)
}

func (q *Querier) MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error) {
	return MarkConversationRead(ctx, q.db, readerID, peerID)
}

func (q *Querier) CountUnreadMessages(ctx context.Context, userID string) (map[string]int, error) {
	return CountUnreadMessages(ctx, q.db, userID)
}
