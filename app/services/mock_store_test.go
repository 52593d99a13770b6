package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mockStore is an in-memory stand-in for the database store. It mirrors the
// guarded SQL semantics: relative balance increments, membership edits that
// skip owners and duplicates, and sql.ErrNoRows for misses.
type mockStore struct {
	users         map[string]*models.User
	accounts      map[string]*models.Account
	transactions  []*models.Transaction
	legs          map[string]string // transaction ID -> debit/credit
	categories    []*models.Category
	notifications map[string]*models.Notification
	friendships   map[string]*models.Friendship
	messages      []*models.Message

	failures map[string]error // method name -> forced error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         map[string]*models.User{},
		accounts:      map[string]*models.Account{},
		legs:          map[string]string{},
		notifications: map[string]*models.Notification{},
		friendships:   map[string]*models.Friendship{},
		failures:      map[string]error{},
	}
}

var (
	_ ledgerStore     = (*mockStore)(nil)
	_ membershipStore = (*mockStore)(nil)
	_ notifierStore   = (*mockStore)(nil)
	_ bootstrapStore  = (*mockStore)(nil)
	_ chatStore       = (*mockStore)(nil)
	_ schedulerStore  = (*mockStore)(nil)
)

func (s *mockStore) fail(method string) error {
	return s.failures[method]
}

func (s *mockStore) addUser(name, email string, role models.Role) *models.User {
	u := &models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	s.users[u.ID] = u
	return u
}

func (s *mockStore) addAccount(owner *models.User, name string, kind models.AccountType, balance string) *models.Account {
	b, _ := decimal.NewFromString(balance)
	a := &models.Account{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		Name:      name,
		Balance:   b,
		Currency:  "USD",
		Type:      kind,
		CreatedAt: time.Now(),
	}
	s.accounts[a.ID] = a
	return a
}

// Users

func (s *mockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := s.fail("GetUserByID"); err != nil {
		return nil, err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	if err := s.fail("GetAllUsers"); err != nil {
		return nil, err
	}
	users := []*models.User{}
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// Accounts

func (s *mockStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) GetGroupAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := s.accounts[id]; ok && a.Type == models.AccountShared {
		return a, nil
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) GetPersonalAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	if err := s.fail("GetPersonalAccounts"); err != nil {
		return nil, err
	}
	return s.accountsWhere(func(a *models.Account) bool {
		return a.Type == models.AccountPersonal && a.UserID == userID
	}), nil
}

func (s *mockStore) GetGroupAccounts(ctx context.Context) ([]*models.Account, error) {
	if err := s.fail("GetGroupAccounts"); err != nil {
		return nil, err
	}
	return s.accountsWhere(func(a *models.Account) bool {
		return a.Type == models.AccountShared
	}), nil
}

func (s *mockStore) accountsWhere(keep func(*models.Account) bool) []*models.Account {
	out := []*models.Account{}
	for _, a := range s.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *mockStore) FirstPersonalAccountForUser(ctx context.Context, userID string) (*models.Account, error) {
	owned := s.accountsWhere(func(a *models.Account) bool {
		return a.Type == models.AccountPersonal && a.UserID == userID
	})
	if len(owned) == 0 {
		return nil, database.ErrNoRows
	}
	return owned[0], nil
}

func (s *mockStore) SetAccountSuspended(ctx context.Context, kind models.AccountType, id string, suspended bool) error {
	a, ok := s.accounts[id]
	if !ok || a.Type != kind {
		return database.ErrNoRows
	}
	a.IsSuspended = suspended
	return nil
}

func (s *mockStore) AddGroupMember(ctx context.Context, accountID, userID string) (bool, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return false, errors.New("no such account")
	}
	if a.UserID == userID || a.HasMember(userID) {
		return false, nil
	}
	a.Members = append(a.Members, userID)
	return true, nil
}

func (s *mockStore) RemoveGroupMember(ctx context.Context, accountID, userID string) (bool, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return false, errors.New("no such account")
	}
	for i, m := range a.Members {
		if m == userID {
			a.Members = append(a.Members[:i], a.Members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *mockStore) ListAccountsForAudit(ctx context.Context) ([]*database.AuditRow, error) {
	if err := s.fail("ListAccountsForAudit"); err != nil {
		return nil, err
	}
	rows := []*database.AuditRow{}
	for _, a := range s.accounts {
		rows = append(rows, &database.AuditRow{
			ID:      a.ID,
			Name:    a.Name,
			Kind:    a.Type,
			Balance: a.Balance,
		})
	}
	return rows, nil
}

// Transactions

func (s *mockStore) insertTransaction(t *models.Transaction, leg string) {
	t.ID = uuid.NewString()
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	s.transactions = append(s.transactions, t)
	if leg != "" {
		s.legs[t.ID] = leg
	}
}

func (s *mockStore) ApplyEntry(ctx context.Context, t *models.Transaction, kind models.AccountType, delta decimal.Decimal) error {
	if err := s.fail("ApplyEntry"); err != nil {
		return err
	}
	a, ok := s.accounts[t.AccountID]
	if !ok {
		return errors.New("no such account")
	}
	s.insertTransaction(t, "")
	a.Balance = a.Balance.Add(delta)
	return nil
}

func (s *mockStore) ApplyTransfer(ctx context.Context, debit, credit *models.Transaction, srcKind, dstKind models.AccountType) error {
	if err := s.fail("ApplyTransfer"); err != nil {
		return err
	}
	src, ok := s.accounts[debit.AccountID]
	if !ok {
		return errors.New("no such source account")
	}
	dst, ok := s.accounts[credit.AccountID]
	if !ok {
		return errors.New("no such target account")
	}
	s.insertTransaction(debit, "debit")
	s.insertTransaction(credit, "credit")
	src.Balance = src.Balance.Sub(debit.Amount)
	dst.Balance = dst.Balance.Add(credit.Amount)
	return nil
}

func (s *mockStore) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	if err := s.fail("GetRecentTransactions"); err != nil {
		return nil, err
	}
	visible := map[string]bool{}
	for _, a := range s.accounts {
		if a.UserID == userID || a.HasMember(userID) {
			visible[a.ID] = true
		}
	}
	out := []*models.Transaction{}
	for _, t := range s.transactions {
		if visible[t.AccountID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *mockStore) SumPostingsForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range s.transactions {
		if t.AccountID != accountID {
			continue
		}
		switch {
		case t.Type == models.TransactionIncome:
			sum = sum.Add(t.Amount)
		case t.Type == models.TransactionExpense:
			sum = sum.Sub(t.Amount)
		case s.legs[t.ID] == "credit":
			sum = sum.Add(t.Amount)
		case s.legs[t.ID] == "debit":
			sum = sum.Sub(t.Amount)
		}
	}
	return sum, nil
}

// Categories

func (s *mockStore) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	if err := s.fail("GetAllCategories"); err != nil {
		return nil, err
	}
	return s.categories, nil
}

func (s *mockStore) FirstCategoryOfType(ctx context.Context, txType models.TransactionType) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Type == txType {
			return c, nil
		}
	}
	return nil, database.ErrNoRows
}

// Notifications

func (s *mockStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	if err := s.fail("InsertNotification"); err != nil {
		return err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	s.notifications[n.ID] = n
	return nil
}

func (s *mockStore) InsertNotifications(ctx context.Context, ns []*models.Notification) error {
	for _, n := range ns {
		if err := s.InsertNotification(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *mockStore) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	if n, ok := s.notifications[id]; ok {
		return n, nil
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) GetNotificationsForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	if err := s.fail("GetNotificationsForUser"); err != nil {
		return nil, err
	}
	out := []*models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *mockStore) SetNotificationStatus(ctx context.Context, id string, status models.RequestStatus) error {
	n, ok := s.notifications[id]
	if !ok {
		return database.ErrNoRows
	}
	n.Status = status
	n.IsRead = true
	return nil
}

func (s *mockStore) PurgeReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, n := range s.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(s.notifications, id)
			removed++
		}
	}
	return removed, nil
}

// notificationsFor is a test helper.
func (s *mockStore) notificationsFor(userID string) []*models.Notification {
	out, _ := s.GetNotificationsForUser(context.Background(), userID)
	return out
}

// Friendships

func (s *mockStore) GetFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error) {
	if err := s.fail("GetFriendshipsForUser"); err != nil {
		return nil, err
	}
	out := []*models.Friendship{}
	for _, f := range s.friendships {
		if f.RequesterID == userID || f.ReceiverID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *mockStore) FindFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	for _, f := range s.friendships {
		if (f.RequesterID == userA && f.ReceiverID == userB) ||
			(f.RequesterID == userB && f.ReceiverID == userA) {
			return f, nil
		}
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) GetFriendshipByID(ctx context.Context, id string) (*models.Friendship, error) {
	if f, ok := s.friendships[id]; ok {
		return f, nil
	}
	return nil, database.ErrNoRows
}

func (s *mockStore) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now()
	s.friendships[f.ID] = f
	return nil
}

func (s *mockStore) SetFriendshipStatus(ctx context.Context, id string, status models.RequestStatus) error {
	f, ok := s.friendships[id]
	if !ok {
		return database.ErrNoRows
	}
	f.Status = status
	return nil
}

func (s *mockStore) DeleteFriendship(ctx context.Context, id string) error {
	delete(s.friendships, id)
	return nil
}

// Messages

func (s *mockStore) InsertMessage(ctx context.Context, m *models.Message) error {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	s.messages = append(s.messages, m)
	return nil
}

func (s *mockStore) GetConversation(ctx context.Context, userA, userB string) ([]*models.Message, error) {
	out := []*models.Message{}
	for _, m := range s.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) ||
			(m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *mockStore) MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error) {
	var n int64
	for _, m := range s.messages {
		if m.ReceiverID == readerID && m.SenderID == peerID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (s *mockStore) CountUnreadMessages(ctx context.Context, userID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.IsRead {
			counts[m.SenderID]++
		}
	}
	return counts, nil
}
